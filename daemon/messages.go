// Package daemon implements the Daemon Loop of spec.md §4.4: the message
// pump, state machine, fairness between requests and backlog processing,
// and the Initialize/Shutdown orchestration of §4.5/§4.6. It is the
// analog of the teacher's mounted_file_system.go + server.go + ops.go:
// where those wire kernel FUSE requests to a caller-supplied FileSystem,
// this wires framed editor requests to a caller-supplied query.Queries
// through the cachestate package's Invalidation Engine and Quarantine
// protocol.
package daemon

// Every request/response tag named in spec.md §6, plus the Status
// request/response of SPEC_FULL.md §D.3.
const (
	TagInitialize = "Initialize"
	TagShutdown   = "Shutdown"
	TagVerbose    = "Verbose"
	TagStatus     = "Status"

	TagFileOpened  = "FileOpened"
	TagFileClosed  = "FileClosed"
	TagFileChanged = "FileChanged"

	TagHover                     = "Hover"
	TagCompletion                = "Completion"
	TagCompletionResolve         = "CompletionResolve"
	TagCompletionResolveLocation = "CompletionResolveLocation"
	TagDocumentHighlight         = "DocumentHighlight"
	TagSignatureHelp             = "SignatureHelp"
	TagDefinition                = "Definition"
	TagTypeDefinition            = "TypeDefinition"
	TagDocumentSymbol            = "DocumentSymbol"
	TagTypeCoverage              = "TypeCoverage"
)

// InitializeRequest is the body of the Initialize request (spec.md §6):
// the repository root, an optional saved-state path (nil selects the
// default FileLoader, per §4.5 step 4), whether ranked autocomplete is
// enabled, and an opaque versioned config payload (SPEC_FULL.md §A.3).
type InitializeRequest struct {
	Root                  string
	SavedStatePath        *string
	UseRankedAutocomplete bool
	Config                []byte
}

// VerboseRequest toggles the logger's level (SPEC_FULL.md §A.1).
type VerboseRequest struct {
	Enabled bool
}

// FileOpenedRequest/FileClosedRequest/FileChangedRequest carry the three
// entry/disk lifecycle notifications of spec.md §3/§4.1/§4.3.
type FileOpenedRequest struct {
	Path     string
	Contents string
}

type FileClosedRequest struct {
	Path string
}

type FileChangedRequest struct {
	Path string
}

// docLocation is the common request shape of every position-based query
// (spec.md §6's doc_loc): a path, optional unsaved contents (supplying
// contents routes the call through Quarantine per §4.2), and a position.
type docLocation struct {
	Path     string
	Contents *string
	Line     int
	Col      int
}

type HoverRequest struct{ docLocation }

type CompletionRequest struct {
	docLocation
	IsManuallyInvoked bool
}

type CompletionResolveRequest struct {
	Symbol string
	Kind   string
}

type CompletionResolveLocationRequest struct {
	docLocation
	Kind string
}

type DocumentHighlightRequest struct{ docLocation }
type SignatureHelpRequest struct{ docLocation }
type DefinitionRequest struct{ docLocation }
type TypeDefinitionRequest struct{ docLocation }

type DocumentSymbolRequest struct {
	Path     string
	Contents *string
}

type TypeCoverageRequest struct {
	Path     string
	Contents string
}

// Response is the Response{ok|err, unblocked_time} tag of spec.md §6.
// Result carries the handler's return value; Shutdown, FileOpened and
// FileClosed carry an empty struct. Verbose and FileChanged produce a
// Notification instead of a Response.
type Response struct {
	Err           *ErrorInfo
	Result        interface{}
	UnblockedTime int64 // Unix nanos; stamped by a jacobsa/timeutil.Clock
}

// ErrorInfo is the wire-safe projection of an errs.Structured error.
type ErrorInfo struct {
	Short      string
	Medium     string
	Long       string
	Debug      string
	Actionable bool
}

// Notification is the Notification{...} tag of spec.md §6: Processing and
// Done report backlog progress (§4.3); Verbose and FileChanged (per the
// §4.4 state table) also produce a Notification rather than a Response,
// since nothing calls them requests in spec.md's own table.
type Notification struct {
	Processing *ProcessingNotification
	Done       bool
}

// ProcessingNotification is {processed, total} per spec.md §4.3.
type ProcessingNotification struct {
	Processed int
	Total     int
}

// StatusResponse is SPEC_FULL.md §D.3's supplemented introspection
// result.
type StatusResponse struct {
	State        string
	BacklogTotal int
	BacklogDone  int
	EntryCount   int
}
