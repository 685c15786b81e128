package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. [%s] %s\n", i+1, err.Field, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors
	errs = append(errs, c.validateDepartments()...)
	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateVectorDB()...)
	errs = append(errs, c.validateRetrieval()...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateDepartments() ValidationErrors {
	var errs ValidationErrors
	if len(c.Departments) == 0 {
		errs = append(errs, ValidationError{Field: "departments", Message: "at least one department is required"})
		return errs
	}
	seen := make(map[string]struct{}, len(c.Departments))
	for i, d := range c.Departments {
		name := strings.ToLower(strings.TrimSpace(string(d.Name)))
		if name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("departments[%d].name", i),
				Message: "department name must not be empty",
			})
			continue
		}
		if _, ok := seen[name]; ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("departments[%d].name", i),
				Message: fmt.Sprintf("duplicate department %q", d.Name),
			})
		}
		seen[name] = struct{}{}
		if len(d.Scope) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("departments[%d].scope", i),
				Message: fmt.Sprintf("department %q needs at least one scope entry", d.Name),
			})
		}
	}
	return errs
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{Field: "llm.model", Message: "model must be set"})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{Field: "llm.temperature", Message: "temperature must be within [0, 2]"})
	}
	if c.LLM.MaxPromptTokens < 0 {
		errs = append(errs, ValidationError{Field: "llm.max_prompt_tokens", Message: "max_prompt_tokens must not be negative"})
	}
	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors
	switch c.VectorDB.Provider {
	case "", "memory":
	case "qdrant":
		if c.VectorDB.Endpoint == "" {
			errs = append(errs, ValidationError{Field: "vectordb.endpoint", Message: "qdrant provider requires an endpoint"})
		}
		if c.VectorDB.Collection == "" {
			errs = append(errs, ValidationError{Field: "vectordb.collection", Message: "qdrant provider requires a collection"})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unknown provider %q (available: memory, qdrant)", c.VectorDB.Provider),
		})
	}
	return errs
}

func (c *Config) validateRetrieval() ValidationErrors {
	var errs ValidationErrors
	if c.Retrieval.TopK < 0 {
		errs = append(errs, ValidationError{Field: "retrieval.top_k", Message: "top_k must not be negative"})
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold > 1 {
		errs = append(errs, ValidationError{Field: "retrieval.threshold", Message: "threshold must be within [0, 1]"})
	}
	return errs
}
