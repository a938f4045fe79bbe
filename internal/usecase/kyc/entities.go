package kyc

import (
	"time"

	"lendbox/internal/domain/kyc"
	documentuc "lendbox/internal/usecase/document"
)

type AnswerInput struct {
	QuestionIndex int    `json:"question_index" validate:"min=0,max=9"`
	Answer        string `json:"answer" validate:"required,max=2000"`
}

type SubmitAnswersInput struct {
	Answers []AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

type UploadDocumentInput struct {
	DocumentType string `validate:"required"`
	File         documentuc.FileInput
}

type QuestionDTO struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

type DocumentDTO struct {
	ID           uint64           `json:"id"`
	DocumentType kyc.DocumentType `json:"document_type"`
	FileName     string           `json:"file_name"`
	Verified     bool             `json:"verified"`
	UploadedAt   time.Time        `json:"uploaded_at"`
}

type ProfileDTO struct {
	Profile          kyc.Profile   `json:"profile"`
	UniqueIdentifier string        `json:"unique_identifier,omitempty"`
	KYCLevel         int           `json:"kyc_level"`
	Questions        []QuestionDTO `json:"questions"`
	Documents        []DocumentDTO `json:"documents"`
	// Level 2 document types still missing.
	Missing []kyc.DocumentType `json:"missing_documents"`
}

func toDocumentDTO(d *kyc.Document) DocumentDTO {
	return DocumentDTO{
		ID:           d.ID,
		DocumentType: d.DocumentType,
		FileName:     d.FileName,
		Verified:     d.Verified,
		UploadedAt:   d.UploadedAt,
	}
}
