package state

import (
	"time"

	"github.com/google/uuid"
)

// Deployment statuses
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Deployment is one recorded deployment attempt, successful or not
type Deployment struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProjectName    string    `json:"project_name" gorm:"not null;index"`
	ProjectPath    string    `json:"project_path" gorm:"not null;index"`
	Platform       string    `json:"platform" gorm:"not null;index"`
	Framework      string    `json:"framework"`
	PackageManager string    `json:"package_manager"`
	BuildCommand   string    `json:"build_command,omitempty"`
	PublishDir     string    `json:"publish_dir"`
	Prod           bool      `json:"prod"`
	Status         string    `json:"status" gorm:"not null"`
	URL            string    `json:"url,omitempty"`
	Error          string    `json:"error,omitempty"`
	CommitSHA      string    `json:"commit_sha,omitempty"`
	Branch         string    `json:"branch,omitempty"`
	Dirty          bool      `json:"dirty"`
	DurationMS     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
