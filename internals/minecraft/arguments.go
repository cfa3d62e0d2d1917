package minecraft

import (
	"encoding/json"
	"strings"
)

// stringSlice is a slice of strings that can be unmarshalled from a
// string or a []string
type stringSlice []string

func (w *stringSlice) String() string {
	return strings.Join(*w, " ")
}

// UnmarshalJSON is needed because argument values sometimes are plain strings
func (w *stringSlice) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var arr []string
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*w = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*w = []string{str}
	return nil
}

// Argument is one entry of the `arguments.game` or `arguments.jvm`
// arrays. The raw JSON is heterogeneous: either a bare string or an
// object with rules and a string-or-array value.
type Argument struct {
	// Value is the actual argument (one or more tokens)
	Value stringSlice `json:"value"`
	// Rules gate whether the value is emitted at all
	Rules []Rule `json:"rules,omitempty"`
}

// Plain reports whether this argument was a bare string entry
func (a *Argument) Plain() bool {
	return len(a.Rules) == 0 && len(a.Value) == 1
}

// UnmarshalJSON accepts both the bare string and the object form
func (a *Argument) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		type plain Argument
		var arg plain
		if err := json.Unmarshal(data, &arg); err != nil {
			return err
		}
		*a = Argument(arg)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	a.Value = []string{str}
	a.Rules = nil
	return nil
}

// MarshalJSON writes bare strings back as bare strings so a merged
// descriptor round-trips the way mojang writes them
func (a Argument) MarshalJSON() ([]byte, error) {
	if a.Plain() {
		return json.Marshal(a.Value[0])
	}
	type plain Argument
	return json.Marshal(plain(a))
}

// Arguments holds the post-1.13 argument arrays
type Arguments struct {
	Game []Argument `json:"game,omitempty"`
	JVM  []Argument `json:"jvm,omitempty"`
}

// Empty reports whether neither array carries entries
func (a *Arguments) Empty() bool {
	return a == nil || (len(a.Game) == 0 && len(a.JVM) == 0)
}
