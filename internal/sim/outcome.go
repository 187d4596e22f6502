package sim

import "fmt"

// Outcome is how a run terminated. None of them is an error.
type Outcome int

const (
	// Unknown is only seen on a partial result returned with an error.
	Unknown Outcome = iota
	Success
	OutOfBounds
	Captured
	Exhausted
)

var outcomeNames = map[Outcome]string{
	Unknown:     "unknown",
	Success:     "success",
	OutOfBounds: "out_of_bounds",
	Captured:    "captured",
	Exhausted:   "exhausted",
}

// Outcomes lists the terminal outcomes in declaration order.
func Outcomes() []Outcome {
	return []Outcome{Success, OutOfBounds, Captured, Exhausted}
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	if _, ok := outcomeNames[o]; !ok {
		return nil, fmt.Errorf("invalid outcome %d", int(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return Unknown, fmt.Errorf("unknown outcome %q", s)
}
