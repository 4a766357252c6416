package respond

import (
	"time"

	"pet_adoption_server/internal/model"
)

// ApplicationRespond 领养申请
// Pet / Applicant / Publisher 只在详情和列表接口中填充
type ApplicationRespond struct {
	Id          string             `json:"id"`
	PetId       string             `json:"pet_id"`
	ApplicantId string             `json:"applicant_id"`
	PublisherId string             `json:"publisher_id"`
	Status      string             `json:"status"`
	Message     string             `json:"message"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Pet         *PetSummary        `json:"pet,omitempty"`
	Applicant   *PublicUserRespond `json:"applicant,omitempty"`
	Publisher   *PublicUserRespond `json:"publisher,omitempty"`
}

// NewApplicationRespond 转换为 ApplicationRespond
func NewApplicationRespond(a *model.Application) ApplicationRespond {
	return ApplicationRespond{
		Id:          a.Uuid,
		PetId:       a.PetId,
		ApplicantId: a.ApplicantId,
		PublisherId: a.PublisherId,
		Status:      a.Status,
		Message:     a.Message,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
