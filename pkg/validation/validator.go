package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxColumnLength = 200
	MaxAttrColumns  = 50
	MaxSkipRows     = 10000
	MaxPreviewLines = 1000
	MaxHops         = 10
	MaxIterations   = 10000

	labelPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

func init() {
	validate = validator.New()
}

// ParseRequest configures how a dataset's raw CSV is parsed.
type ParseRequest struct {
	SkipRows  int    `json:"skip_rows" validate:"min=0,max=10000"`
	Delimiter string `json:"delimiter" validate:"omitempty,len=1"`
	HasHeader *bool  `json:"has_header" validate:"omitempty"`
	MaxRows   int    `json:"max_rows" validate:"min=0"`
}

// MappingRequest binds CSV columns to graph roles.
type MappingRequest struct {
	SourceColumn    string   `json:"source_column" validate:"required,min=1,max=200"`
	TargetColumn    string   `json:"target_column" validate:"required,min=1,max=200"`
	WeightColumn    string   `json:"weight_column" validate:"omitempty,max=200"`
	EdgeTypeColumn  string   `json:"edge_type_column" validate:"omitempty,max=200"`
	EdgeAttrColumns []string `json:"edge_attr_columns" validate:"omitempty,max=50,dive,min=1,max=200"`
	NodeLabel       string   `json:"node_label" validate:"omitempty,max=50"`
	DefaultEdgeType string   `json:"default_edge_type" validate:"omitempty,max=50"`
	Directed        bool     `json:"directed"`
}

// LayoutRequest selects and configures a layout algorithm.
type LayoutRequest struct {
	Algorithm  string  `json:"algorithm" validate:"required,oneof=force circular hierarchical"`
	Width      float64 `json:"width" validate:"omitempty,min=100,max=100000"`
	Height     float64 `json:"height" validate:"omitempty,min=100,max=100000"`
	Iterations int     `json:"iterations" validate:"omitempty,min=1,max=10000"`
	Seed       int64   `json:"seed"`
}

// AlgorithmRequest selects a graph analysis to run. Damping, MaxIterations
// and Tolerance tune pagerank; MaxIterations also bounds label_propagation.
type AlgorithmRequest struct {
	Algorithm     string   `json:"algorithm" validate:"required,oneof=pagerank centrality edge_betweenness components label_propagation shortest_path khop triangles topology"`
	Source        uint64   `json:"source" validate:"omitempty,min=1"`
	Target        uint64   `json:"target" validate:"omitempty,min=1"`
	MaxHops       int      `json:"max_hops" validate:"omitempty,min=1,max=10"`
	Direction     string   `json:"direction" validate:"omitempty,oneof=out in both"`
	EdgeTypes     []string `json:"edge_types" validate:"omitempty,max=50"`
	Weighted      bool     `json:"weighted"`
	Damping       float64  `json:"damping" validate:"omitempty,gt=0,lt=1"`
	MaxIterations int      `json:"max_iterations" validate:"omitempty,min=1,max=10000"`
	Tolerance     float64  `json:"tolerance" validate:"omitempty,gt=0,max=1"`
}

// ValidateParseRequest validates parse options.
func ValidateParseRequest(req *ParseRequest) error {
	if req == nil {
		return errors.New("parse request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateMappingRequest validates a column mapping.
func ValidateMappingRequest(req *MappingRequest) error {
	if req == nil {
		return errors.New("mapping request cannot be nil")
	}
	if err := formatValidationError(validate.Struct(req)); err != nil {
		return err
	}

	if req.NodeLabel != "" && !labelPattern.MatchString(req.NodeLabel) {
		return fmt.Errorf("NodeLabel: '%s' contains invalid characters (only alphanumeric and underscore allowed)", req.NodeLabel)
	}
	if req.DefaultEdgeType != "" && !labelPattern.MatchString(req.DefaultEdgeType) {
		return fmt.Errorf("DefaultEdgeType: '%s' contains invalid characters (only alphanumeric and underscore allowed)", req.DefaultEdgeType)
	}
	return nil
}

// ValidateLayoutRequest validates layout parameters.
func ValidateLayoutRequest(req *LayoutRequest) error {
	if req == nil {
		return errors.New("layout request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateAlgorithmRequest validates an analysis request, including the
// per-algorithm required parameters.
func ValidateAlgorithmRequest(req *AlgorithmRequest) error {
	if req == nil {
		return errors.New("algorithm request cannot be nil")
	}
	if err := formatValidationError(validate.Struct(req)); err != nil {
		return err
	}

	switch req.Algorithm {
	case "shortest_path":
		if req.Source == 0 || req.Target == 0 {
			return errors.New("Source: shortest_path requires source and target node IDs")
		}
	case "khop":
		if req.Source == 0 {
			return errors.New("Source: khop requires a source node ID")
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		case "len":
			return fmt.Errorf("%s: must have length %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
