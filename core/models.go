package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from content-based hashing of natural keys.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs, so re-importing a
// catalog or re-analyzing a device overwrites rather than duplicates.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentKind identifies the format of a retrieved summary document.
type DocumentKind int

const (
	// DocumentKindPDF is a premarket summary PDF.
	DocumentKindPDF DocumentKind = iota + 1
	// DocumentKindHTML is an HTML fallback captured when no PDF could be found.
	DocumentKindHTML
)

// Submission represents a single device entry from the regulatory catalog.
// Supplement fields are populated when a third-party catalog record matches
// the submission number.
type Submission struct {
	Number       string    // Regulatory submission number, e.g. "K213760"
	Device       string    // Device trade name
	Company      string    // Applicant company
	Panel        string    // Lead review panel, e.g. "Radiology"
	DecisionDate time.Time // Date of final decision
	KnownAlgo    string    // Algorithm reported by the supplemental catalog, if any
	Description  string    // Device description from the supplemental catalog, if any
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// Document holds the extracted text of a device summary document.
// Passages are cleaned paragraphs ready for question answering.
type Document struct {
	SubmissionNumber string
	SourceURL        string
	Kind             DocumentKind
	Passages         []string
	FetchedAt        time.Time // When the document was retrieved from the registry
	InsertedAt       time.Time
	UpdatedAt        time.Time
}

// Finding is a scored answer produced by question answering over passages.
type Finding struct {
	Score float64 // Model confidence in [0,1]
	Text  string
}

// AttackClass categorizes a security-attack paper by when the attack applies.
type AttackClass int

const (
	// AttackClassUnclassified means no attack pattern matched the paper page.
	AttackClassUnclassified AttackClass = iota
	// AttackClassInference covers evasion, adversarial examples,
	// membership inference and model inversion.
	AttackClassInference
	// AttackClassTraining covers poisoning and training data manipulation.
	AttackClassTraining
)

// Paper is a scholarly search result.
type Paper struct {
	Title    string
	Abstract string
	URL      string
	Class    AttackClass
}

// AttackSearch groups the papers found for one query (attack prefix + keyword).
type AttackSearch struct {
	Query   string
	Keyword string
	Papers  []Paper
}

// ReportStatus describes how completely a device was analyzed.
type ReportStatus int

const (
	// ReportStatusComplete means every analysis stage ran.
	ReportStatusComplete ReportStatus = iota + 1
	// ReportStatusNoDocument means no summary document could be retrieved;
	// only catalog metadata is present.
	ReportStatusNoDocument
	// ReportStatusPartial means at least one stage failed and was skipped.
	ReportStatusPartial
)

// Report is the structured questionnaire result for one device. It carries
// device metadata, per-stage findings with confidence scores, and the
// rejected sources so that nothing discovered is silently dropped.
type Report struct {
	Id               ID
	SubmissionNumber string
	Device           string
	Company          string
	Panel            string
	DecisionDate     time.Time
	Status           ReportStatus
	Algorithms       []Finding      // Stage 1: deduplicated QA answers, score-descending
	Validated        []Finding      // Stage 2: keywords that passed web relevance checking
	InputFormats     []Finding      // Stage 1: answers to the input-format question
	AltKeywords      []string       // Stage 2: keywords distilled by the language model
	AttackSearches   []AttackSearch // Stage 3+4: classified attack literature per keyword
	Rejected         []Paper        // Stage 4: papers that matched no attack pattern
	InsertedAt       time.Time
	UpdatedAt        time.Time
}

// Checkpoint records batch progress so interrupted runs can resume.
type Checkpoint struct {
	Stage          string // Pipeline stage name, e.g. "analyze"
	LastSubmission string // Submission number of the last completed device
	UpdatedAt      time.Time
}
