package sparql

// Results is the SPARQL 1.1 JSON results document of a SELECT query.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Term is one bound RDF term.
type Term struct {
	Type     string  `json:"type"` // uri, literal, bnode
	Value    *string `json:"value"`
	Lang     string  `json:"xml:lang,omitempty"`
	Datatype string  `json:"datatype,omitempty"`
}

// Binding maps variable names to the terms bound in one solution.
// Unbound optional variables are absent.
type Binding map[string]Term

// Value returns the lexical value bound to name. A term without a value
// counts as unbound.
func (b Binding) Value(name string) (string, bool) {
	t, ok := b[name]
	if !ok || t.Value == nil {
		return "", false
	}
	return *t.Value, true
}

// Bindings returns the solutions, or nil when the document has none.
func (r *Results) Bindings() []Binding {
	if r == nil {
		return nil
	}
	return r.Results.Bindings
}
