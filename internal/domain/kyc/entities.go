package kyc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound            = errors.New("kyc profile not found")
	ErrInvalidQuestion     = errors.New("unknown questionnaire question")
	ErrInvalidAnswer       = errors.New("invalid questionnaire answer")
	ErrInvalidDocumentType = errors.New("invalid kyc document type")
	ErrDocumentNotFound    = errors.New("kyc document not found")
	ErrAlreadyVerified     = errors.New("kyc document already verified")
)

// Table: kyc_profile
type Profile struct {
	ID                   uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID               uint64     `gorm:"column:user_id;not null;uniqueIndex:ux_kyc_profile_user" json:"user_id"`
	FullName             string     `gorm:"column:full_name;size:200" json:"full_name"`
	DateOfBirth          *time.Time `gorm:"column:date_of_birth;type:date" json:"date_of_birth,omitempty"`
	City                 string     `gorm:"column:city;size:200" json:"city"`
	MobileMoneyNumber    string     `gorm:"column:mobile_money_number;size:50" json:"mobile_money_number"`
	IDType               string     `gorm:"column:id_type;size:50" json:"id_type"`
	IDNumber             string     `gorm:"column:id_number;size:100" json:"id_number"`
	HasBusiness          *bool      `gorm:"column:has_business" json:"has_business"`
	IsOnlyOwner          *bool      `gorm:"column:is_only_owner" json:"is_only_owner"`
	BusinessDescription  string     `gorm:"column:business_description;type:text" json:"business_description"`
	LoanPurpose          string     `gorm:"column:loan_purpose;type:text" json:"loan_purpose"`
	AllQuestionsAnswered bool       `gorm:"column:all_questions_answered;not null" json:"all_questions_answered"`
	Level1CompletedAt    *time.Time `gorm:"column:level_1_completed_at" json:"level_1_completed_at,omitempty"`
	Level2CompletedAt    *time.Time `gorm:"column:level_2_completed_at" json:"level_2_completed_at,omitempty"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "kyc_profile" }

// UniqueIdentifier is "<phone>_<DDMMYYYY>_<id number>", empty until DOB and ID are known.
func (p *Profile) UniqueIdentifier(phone string) string {
	if p.DateOfBirth == nil || p.IDNumber == "" {
		return ""
	}
	return fmt.Sprintf("%s_%s_%s", phone, p.DateOfBirth.Format("02012006"), p.IDNumber)
}

// Table: questionnaire_response
type Response struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	KYCProfileID  uint64    `gorm:"column:kyc_profile_id;not null;uniqueIndex:ux_questionnaire_profile_question" json:"-"`
	QuestionIndex int       `gorm:"column:question_index;not null;uniqueIndex:ux_questionnaire_profile_question" json:"question_index"`
	QuestionText  string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Answer        string    `gorm:"column:answer;type:text;not null" json:"answer"`
	AnsweredAt    time.Time `gorm:"column:answered_at;not null" json:"answered_at"`
}

func (Response) TableName() string { return "questionnaire_response" }

type DocumentType string

const (
	DocBusinessRegistration DocumentType = "business_registration"
	DocElectricityBill      DocumentType = "electricity_bill"
	DocNationalID           DocumentType = "national_id"
	DocOther                DocumentType = "other"
)

func ParseDocumentType(s string) (DocumentType, error) {
	switch d := DocumentType(strings.TrimSpace(s)); d {
	case DocBusinessRegistration, DocElectricityBill, DocNationalID, DocOther:
		return d, nil
	}
	return "", ErrInvalidDocumentType
}

// Table: kyc_document
type Document struct {
	ID           uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	KYCProfileID uint64       `gorm:"column:kyc_profile_id;not null;index" json:"-"`
	DocumentType DocumentType `gorm:"column:document_type;size:50;not null" json:"document_type"`
	StorageKey   string       `gorm:"column:storage_key;size:255;not null" json:"-"`
	FileName     string       `gorm:"column:file_name;size:255;not null" json:"file_name"`
	UploadedAt   time.Time    `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	Verified     bool         `gorm:"column:verified;not null" json:"verified"`
	VerifiedBy   *uint64      `gorm:"column:verified_by" json:"-"`
	VerifiedAt   *time.Time   `gorm:"column:verified_at" json:"verified_at,omitempty"`
}

func (Document) TableName() string { return "kyc_document" }

func (d *Document) Verify(by uint64, at time.Time) error {
	if d.Verified {
		return ErrAlreadyVerified
	}
	d.Verified = true
	d.VerifiedBy = &by
	d.VerifiedAt = &at
	return nil
}

// Level2Types are the documents that complete KYC level 2.
var Level2Types = []DocumentType{DocBusinessRegistration, DocElectricityBill}
