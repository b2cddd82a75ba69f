package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/dukex/operion-betterstack/pkg/config"
	"github.com/dukex/operion-betterstack/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// ErrInvalidJob is returned when a poll job fails validation.
var ErrInvalidJob = errors.New("invalid poll job")

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Job runs one node operation on a cron schedule.
type Job struct {
	// ID is the source id of the events the job emits.
	ID string `json:"id" validate:"required"`

	// CronExpression uses the 5-field format or a descriptor such as @every 5m.
	CronExpression string `json:"cron" validate:"required"`

	Node  models.WorkflowNode `json:"node"`
	Items []models.Item       `json:"items,omitempty"`

	// Disabled jobs are validated but never scheduled.
	Disabled bool `json:"disabled,omitempty"`
}

// Validate checks the required fields and the cron expression.
func (j *Job) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if _, err := cronParser.Parse(j.CronExpression); err != nil {
		return fmt.Errorf("%w: job %s: %w", ErrInvalidJob, j.ID, err)
	}

	return nil
}

// NextRun returns the first run of the job after t.
func (j *Job) NextRun(t time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(j.CronExpression)
	if err != nil {
		return time.Time{}, err
	}

	return schedule.Next(t), nil
}

// JobsFile is the document read by LoadJobs.
type JobsFile struct {
	Jobs []Job `json:"jobs" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadJobs reads and validates a JSON or YAML jobs file.
func LoadJobs(path string) ([]Job, error) {
	var file JobsFile
	if err := config.Load(path, &file); err != nil {
		return nil, fmt.Errorf("loading poll jobs: %w", err)
	}

	return BuildJobs(file)
}

// BuildJobs validates every job of a jobs document. Job ids must be unique
// and a node without an id takes the id of its job.
func BuildJobs(file JobsFile) ([]Job, error) {
	for i := range file.Jobs {
		if file.Jobs[i].Node.ID == "" {
			file.Jobs[i].Node.ID = file.Jobs[i].ID
		}
	}

	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	seen := make(map[string]bool, len(file.Jobs))

	for i := range file.Jobs {
		job := &file.Jobs[i]

		if seen[job.ID] {
			return nil, fmt.Errorf("%w: duplicate job id %q", ErrInvalidJob, job.ID)
		}

		seen[job.ID] = true

		if err := job.Validate(); err != nil {
			return nil, err
		}
	}

	return file.Jobs, nil
}
