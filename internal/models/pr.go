package models

import "time"

type FileChangeType string

const (
	ChangeAdded    FileChangeType = "added"
	ChangeModified FileChangeType = "modified"
	ChangeDeleted  FileChangeType = "deleted"
	ChangeRenamed  FileChangeType = "renamed"
)

// MergeableState mirrors the GitHub GraphQL MergeableState enum.
type MergeableState string

const (
	Mergeable   MergeableState = "MERGEABLE"
	Conflicting MergeableState = "CONFLICTING"
	Unknown     MergeableState = "UNKNOWN"
)

type ReviewState string

const (
	ReviewApproved         ReviewState = "APPROVED"
	ReviewChangesRequested ReviewState = "CHANGES_REQUESTED"
	ReviewCommented        ReviewState = "COMMENTED"
	ReviewPending          ReviewState = "PENDING"
	ReviewDismissed        ReviewState = "DISMISSED"
)

type (
	// ChangedFile is one file touched by a pull request.
	ChangedFile struct {
		Path       string         `json:"path" yaml:"path"`
		Additions  int            `json:"additions" yaml:"additions"`
		Deletions  int            `json:"deletions" yaml:"deletions"`
		ChangeType FileChangeType `json:"changeType" yaml:"changeType"`
	}

	Label struct {
		Name  string `json:"name" yaml:"name"`
		Color string `json:"color" yaml:"color"`
	}

	Review struct {
		Author      string      `json:"author" yaml:"author"`
		State       ReviewState `json:"state" yaml:"state"`
		SubmittedAt time.Time   `json:"submittedAt" yaml:"submittedAt"`
	}

	// PullRequest is the provider-agnostic view of an open pull request.
	// Everything downstream of the provider treats it as read-only.
	PullRequest struct {
		Number         int            `json:"number" yaml:"number"`
		Title          string         `json:"title" yaml:"title"`
		Body           string         `json:"body" yaml:"body"`
		Author         string         `json:"author" yaml:"author"`
		URL            string         `json:"url,omitempty" yaml:"url,omitempty"`
		CreatedAt      time.Time      `json:"createdAt" yaml:"createdAt"`
		UpdatedAt      time.Time      `json:"updatedAt" yaml:"updatedAt"`
		IsDraft        bool           `json:"isDraft" yaml:"isDraft"`
		Mergeable      MergeableState `json:"mergeable" yaml:"mergeable"`
		HeadRef        string         `json:"headRefName" yaml:"headRefName"`
		BaseRef        string         `json:"baseRefName" yaml:"baseRefName"`
		Additions      int            `json:"additions" yaml:"additions"`
		Deletions      int            `json:"deletions" yaml:"deletions"`
		ChangedFiles   int            `json:"changedFiles" yaml:"changedFiles"`
		Labels         []Label        `json:"labels" yaml:"labels"`
		Reviews        []Review       `json:"reviews" yaml:"reviews"`
		Files          []ChangedFile  `json:"files" yaml:"files"`
		ReviewRequests []string       `json:"reviewRequests" yaml:"reviewRequests"`
	}

	// ScoreBreakdown holds the seven dimension scores and the aggregate, each in [1,10].
	ScoreBreakdown struct {
		Lines        int `json:"lines" yaml:"lines"`
		Files        int `json:"files" yaml:"files"`
		FileTypes    int `json:"fileTypes" yaml:"fileTypes"`
		Deps         int `json:"deps" yaml:"deps"`
		Tests        int `json:"tests" yaml:"tests"`
		Docs         int `json:"docs" yaml:"docs"`
		CrossCutting int `json:"crossCutting" yaml:"crossCutting"`
		Total        int `json:"total" yaml:"total"`
	}

	// FilteredPR is a pull request that passed the filters, with its score attached.
	FilteredPR struct {
		PullRequest    `yaml:",inline"`
		Score          int            `json:"score" yaml:"score"`
		ScoreBreakdown ScoreBreakdown `json:"scoreBreakdown" yaml:"scoreBreakdown"`
	}
)
