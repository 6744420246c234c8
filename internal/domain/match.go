package domain

import "github.com/google/uuid"

type MatchStatus string

const (
	MatchPending  MatchStatus = "PENDING"
	MatchAccepted MatchStatus = "ACCEPTED"
	MatchRejected MatchStatus = "REJECTED"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchAccepted, MatchRejected:
		return true
	}
	return false
}

type Match struct {
	Model
	RequirementID uuid.UUID   `gorm:"type:uuid;column:requirement_id;not null;uniqueIndex:idx_match_pair" json:"requirementId"`
	TrainerID     uuid.UUID   `gorm:"type:uuid;column:trainer_id;not null;uniqueIndex:idx_match_pair;index" json:"trainerId"`
	Status        MatchStatus `gorm:"column:status;not null;index" json:"status"`
	Score         float64     `gorm:"column:score;not null;default:0" json:"score"`
	Explanation   string      `gorm:"column:explanation" json:"explanation,omitempty"`

	Requirement *Requirement `gorm:"constraint:OnDelete:CASCADE" json:"requirement,omitempty"`
	Trainer     *Trainer     `gorm:"constraint:OnDelete:CASCADE" json:"trainer,omitempty"`
}

func (Match) TableName() string { return "matches" }

type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "DRAFT"
	ProposalSent     ProposalStatus = "SENT"
	ProposalAccepted ProposalStatus = "ACCEPTED"
	ProposalDeclined ProposalStatus = "DECLINED"
)

type Proposal struct {
	Model
	MatchID       uuid.UUID      `gorm:"type:uuid;column:match_id;not null;index" json:"matchId"`
	RequirementID uuid.UUID      `gorm:"type:uuid;column:requirement_id;not null;index" json:"requirementId"`
	TrainerID     uuid.UUID      `gorm:"type:uuid;column:trainer_id;not null;index" json:"trainerId"`
	Price         float64        `gorm:"column:price;not null;default:0" json:"price"`
	Message       string         `gorm:"column:message" json:"message,omitempty"`
	Status        ProposalStatus `gorm:"column:status;not null" json:"status"`

	Match       *Match       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Requirement *Requirement `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Trainer     *Trainer     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Proposal) TableName() string { return "proposals" }
