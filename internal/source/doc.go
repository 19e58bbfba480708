// Package source discovers the complete set of repositories owned by the
// authenticated source-service user through paginated listing calls.
package source
