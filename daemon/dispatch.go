package daemon

// requestFactories maps every request tag to a constructor for its empty
// body value, so the transport layer can decode a frame's raw msgpack
// body into the concrete type Dispatch expects, once it has read the
// tag — the two-phase decode the polymorphic-message design note
// (spec.md §9) calls for.
var requestFactories = map[string]func() interface{}{
	TagInitialize:                func() interface{} { return &InitializeRequest{} },
	TagShutdown:                  func() interface{} { return &struct{}{} },
	TagVerbose:                   func() interface{} { return &VerboseRequest{} },
	TagStatus:                    func() interface{} { return &struct{}{} },
	TagFileOpened:                func() interface{} { return &FileOpenedRequest{} },
	TagFileClosed:                func() interface{} { return &FileClosedRequest{} },
	TagFileChanged:               func() interface{} { return &FileChangedRequest{} },
	TagHover:                     func() interface{} { return &HoverRequest{} },
	TagCompletion:                func() interface{} { return &CompletionRequest{} },
	TagCompletionResolve:         func() interface{} { return &CompletionResolveRequest{} },
	TagCompletionResolveLocation: func() interface{} { return &CompletionResolveLocationRequest{} },
	TagDocumentHighlight:         func() interface{} { return &DocumentHighlightRequest{} },
	TagSignatureHelp:             func() interface{} { return &SignatureHelpRequest{} },
	TagDefinition:                func() interface{} { return &DefinitionRequest{} },
	TagTypeDefinition:            func() interface{} { return &TypeDefinitionRequest{} },
	TagDocumentSymbol:            func() interface{} { return &DocumentSymbolRequest{} },
	TagTypeCoverage:              func() interface{} { return &TypeCoverageRequest{} },
}

// NewRequestBody returns a fresh, zero-valued body for tag, or false if
// tag names no known request kind.
func NewRequestBody(tag string) (interface{}, bool) {
	factory, ok := requestFactories[tag]
	if !ok {
		return nil, false
	}
	return factory(), true
}
