package badger

// Repositories bundles the repositories sharing one database handle.
type Repositories struct {
	Submissions *SubmissionRepository
	Documents   *DocumentRepository
	Reports     *ReportRepository
	Checkpoints *CheckpointRepository

	backend *Backend
}

// NewRepositories opens a database at path and creates all repositories on it.
// Caller must Close when done.
func NewRepositories(path string) (*Repositories, error) {
	return newRepositories(path, false)
}

func newRepositories(path string, inMemory bool) (*Repositories, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Submissions: NewSubmissionRepository(backend),
		Documents:   NewDocumentRepository(backend),
		Reports:     NewReportRepository(backend),
		Checkpoints: NewCheckpointRepository(backend),
		backend:     backend,
	}, nil
}

// Close closes the shared database handle.
func (r *Repositories) Close() error {
	return r.backend.Close()
}
