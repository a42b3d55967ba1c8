package badger

import "fmt"

// Key prefixes for different record types
const (
	submissionPrefix = "subrec"
	documentPrefix   = "docrec"
	reportPrefix     = "reprec"
)

// makeSubmissionKey generates a key for a submission by number.
func makeSubmissionKey(number string) []byte {
	return []byte(fmt.Sprintf("%s:%s", submissionPrefix, number))
}

// makeDocumentKey generates a key for a document by submission number.
func makeDocumentKey(number string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, number))
}

// makeReportKey generates a key for a report by submission number.
func makeReportKey(number string) []byte {
	return []byte(fmt.Sprintf("%s:%s", reportPrefix, number))
}

// makeCheckpointKey generates a key for pipeline stage checkpoints.
func makeCheckpointKey(stage string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", stage))
}
