package domain

import "errors"

// ErrAuthentication indicates the cashier login did not yield a token or an organization.
var ErrAuthentication = errors.New("authentication failed")

// ErrMissingCredential indicates a required setting was not given by flag, environment, profile or prompt.
var ErrMissingCredential = errors.New("missing credential")

// ErrPDFFetch indicates the report PDF could not be retrieved.
var ErrPDFFetch = errors.New("failed to fetch report pdf")

// ErrJournalCreate indicates the bookkeeping service rejected the journal entry.
var ErrJournalCreate = errors.New("failed to create journal entry")

// ErrArtifactWrite indicates a local artifact could not be written. It is not recoverable.
var ErrArtifactWrite = errors.New("failed to write artifact")
