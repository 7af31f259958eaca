package symbols

// LookupQuality describes why a name lookup did not produce a usable type
type LookupQuality int

const (
	QualityViable LookupQuality = iota
	QualityAmbiguous
	QualityInaccessible
	QualityNotFound
	QualityNotAnAttribute
)

func (q LookupQuality) String() string {
	switch q {
	case QualityAmbiguous:
		return "ambiguous"
	case QualityInaccessible:
		return "inaccessible"
	case QualityNotFound:
		return "not-found"
	case QualityNotAnAttribute:
		return "not-an-attribute"
	}
	return "viable"
}

// ClassResolution is the result of resolving an attribute name:
// either Resolved or Unresolved
type ClassResolution interface {
	isClassResolution()
}

// Resolved carries the attribute class
type Resolved struct {
	Type *NamedType
}

// Unresolved carries whatever candidates lookup found
type Unresolved struct {
	Name       string
	Candidates []*NamedType
	Quality    LookupQuality
}

func (Resolved) isClassResolution()   {}
func (Unresolved) isClassResolution() {}

// ErrorType returns the placeholder reported as the record's class
func (u Unresolved) ErrorType() *ErrorType {
	return &ErrorType{Name: u.Name, Candidates: u.Candidates, Quality: u.Quality}
}

// SingleCandidate returns the only candidate, if there is exactly one
func (u Unresolved) SingleCandidate() (*NamedType, bool) {
	if len(u.Candidates) == 1 {
		return u.Candidates[0], true
	}
	return nil, false
}
