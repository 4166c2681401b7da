package cmd

import "github.com/ardnew/vxs/lang"

// Command errors share the structured error type of the template engine so
// that both log the same way.
var (
	ErrReadTemplate = lang.NewError("read template")
	ErrLoadData     = lang.NewError("load site data")
	ErrInvalidTime  = lang.NewError("invalid time (want RFC 3339)")
	ErrInvalidIndex = lang.NewError("invalid loop index")
	ErrReadRules    = lang.NewError("read visibility rules")
	ErrDecodeRules  = lang.NewError("decode visibility rules")
	ErrWriteOutput  = lang.NewError("write output")
	ErrYAMLMarshal  = lang.NewError("marshal YAML")
	ErrWriteConfig  = lang.NewError("write configuration file")
	ErrFileExists   = lang.NewError("file exists (use --force to overwrite)")
)
