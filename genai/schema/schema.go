// Package schema is the sole gatekeeper between untrusted JSON (LLM output,
// client-provided payloads) and the rest of the orchestration core. Every
// entity that crosses that boundary carries `validate` struct tags and is
// checked here before any other component sees it.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func shared() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
	})
	return instance
}

// Issues is a human-readable list of validation problems. A nil/empty Issues
// means the value is valid.
type Issues []string

// Check validates v's struct tags and returns the resulting issues.
func Check(v interface{}) Issues {
	if err := shared().Struct(v); err != nil {
		return fromValidatorErr(err)
	}
	return nil
}

// Decode unmarshals raw JSON into dst and checks dst's struct tags.
// dst must be a pointer. Returns the decode/shape issues; a non-nil error
// indicates the JSON itself was malformed (not a schema issue).
func Decode(raw []byte, dst interface{}) (Issues, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}
	return Check(dst), nil
}

func fromValidatorErr(err error) Issues {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Issues{err.Error()}
	}
	issues := make(Issues, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, fmt.Sprintf("%s: failed on %q", fe.Namespace(), fe.Tag()))
	}
	return issues
}
