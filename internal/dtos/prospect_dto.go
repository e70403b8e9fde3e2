package dtos

import "github.com/generalux/achileads/internal/extractor"

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Success   bool                `json:"success"`
	SearchID  uint                `json:"searchId,omitempty"`
	Response  string              `json:"response"`
	Companies []extractor.Company `json:"companies"`
}

type ExtractRequest struct {
	Text string `json:"text"`
}

type ExtractResponse struct {
	Success   bool                `json:"success"`
	Companies []extractor.Company `json:"companies"`
}
