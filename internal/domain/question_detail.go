package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DialogTurn is one turn in a bilingual conversation. IDs are caller-assigned
// and unique within the parent sequence; order is significant. The JSON keys
// are the wire format consumed by the web client and the audio endpoints.
type DialogTurn struct {
	ID               string `json:"id"`
	OriginalText     string `json:"originalText"`
	DialogAudio      string `json:"dialogAudio"`
	Translation      string `json:"translation"`
	TranslationAudio string `json:"translationAudio"`
}

// QuestionDetail is the content record behind a Question, linked one-to-one by
// QuestionID (a plain field, not this table's primary key). Dialogs is the full
// ordered turn sequence stored as a jsonb array; there is no element-level
// patching, updates rewrite the array wholesale.
type QuestionDetail struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`

	DisplayNumber string           `gorm:"type:text;not null;default:''" json:"display_number"`
	Title         string           `gorm:"type:text;not null;default:''" json:"title"`
	Category      QuestionCategory `gorm:"type:text;not null;default:''" json:"category"`

	Introduction      string `gorm:"type:text;not null;default:''" json:"introduction"`
	IntroductionAudio string `gorm:"type:text;not null;default:''" json:"introduction_audio"`

	Dialogs datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"dialogs"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuestionDetail) TableName() string { return "question_detail" }

func (qd *QuestionDetail) BeforeCreate(tx *gorm.DB) error {
	if qd.ID == uuid.Nil {
		qd.ID = uuid.New()
	}
	return nil
}

// DecodeDialogs unpacks the stored jsonb turn sequence. A missing or malformed
// column decodes to an empty sequence rather than an error; the pipeline treats
// unreadable dialogs the same as none.
func (qd *QuestionDetail) DecodeDialogs() []DialogTurn {
	if qd == nil || len(qd.Dialogs) == 0 {
		return nil
	}
	var turns []DialogTurn
	if err := json.Unmarshal(qd.Dialogs, &turns); err != nil {
		return nil
	}
	return turns
}

func EncodeDialogs(turns []DialogTurn) datatypes.JSON {
	if turns == nil {
		turns = []DialogTurn{}
	}
	raw, err := json.Marshal(turns)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
