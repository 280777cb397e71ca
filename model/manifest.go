package model

import "time"

// JobStatus is the terminal state of one job within a run.
type JobStatus string

const (
	JobStatusOK      JobStatus = "ok"
	JobStatusFailed  JobStatus = "failed"
	JobStatusSkipped JobStatus = "skipped"
)

// Manifest records a single matrix run. It is written as manifest.json
// into the run's history directory.
type Manifest struct {
	// Unique ID for this run (UUID).
	ID string `json:"id"`
	// Timestamp when the run started.
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name).
	Args []string `json:"args"`
	// Duration of the whole run.
	Duration time.Duration `json:"duration"`
	// Matrix source document the run was expanded from.
	Matrix string `json:"matrix"`
	// Publish root the artifacts were written to.
	OutputDir string `json:"output_dir"`
	// Git information of the config repository (best effort).
	Git *Git `json:"git,omitempty"`
	// Jobs holds one record per expanded job, in execution order.
	Jobs []JobRecord `json:"jobs,omitempty"`
}

// Git contains repository information captured at run time.
type Git struct {
	// Commit hash at time of execution.
	Commit string `json:"commit,omitempty"`
	// Branch at time of execution.
	Branch string `json:"branch,omitempty"`
}

// JobRecord is the per-job slice of a Manifest.
type JobRecord struct {
	Board   string    `json:"board"`
	Shield  string    `json:"shield"`
	Target  string    `json:"target,omitempty"`
	Keymap  string    `json:"keymap,omitempty"`
	Format  string    `json:"format"`
	Status  JobStatus `json:"status"`
	// Artifact is the published path, relative to the working directory,
	// when Status is ok.
	Artifact string `json:"artifact,omitempty"`
	// Reason explains a failed or skipped job.
	Reason string `json:"reason,omitempty"`
	// Duration of the build invocation (zero for skipped jobs).
	Duration time.Duration `json:"duration,omitempty"`
}

// Counts tallies job records by status.
func (m *Manifest) Counts() (ok, failed, skipped int) {
	for _, j := range m.Jobs {
		switch j.Status {
		case JobStatusOK:
			ok++
		case JobStatusFailed:
			failed++
		case JobStatusSkipped:
			skipped++
		}
	}
	return ok, failed, skipped
}
