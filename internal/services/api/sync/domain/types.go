// Package domain holds the sync api DTOs and ports
package domain

import (
	"encoding/json"

	"aardsync/internal/core/aardvark"
)

// DefaultBranch is used when a request names no branch
const DefaultBranch = "main"

// RepoInput names a repository and an optional per-request token
type RepoInput struct {
	RepoURL string `json:"repo_url"        validate:"required,repo_ref"`
	Branch  string `json:"branch"          validate:"omitempty,max=255"`
	Token   string `json:"token,omitempty" validate:"omitempty,max=255"`
}

// ReadInput loads one JSON file by path from the branch, or by blob sha
type ReadInput struct {
	RepoInput
	Path string `json:"path" validate:"required_without=SHA,omitempty,repo_path"`
	SHA  string `json:"sha"  validate:"omitempty,hexadecimal,min=7,max=64"`
}

// VerifyOutput confirms a repository and branch are reachable
type VerifyOutput struct {
	Repo   string `json:"repo"`
	Branch string `json:"branch"`
	OK     bool   `json:"ok"`
}

// PutFileInput writes one file. A JSON string content is written verbatim,
// any other JSON value is pretty printed
type PutFileInput struct {
	RepoInput
	Path    string          `json:"path"    validate:"required,repo_path"`
	Content json.RawMessage `json:"content" validate:"required"`
	Message string          `json:"message" validate:"omitempty,max=1024"`
}

// PutRecordInput writes one record to metadata-aardvark/<id>.json
type PutRecordInput struct {
	RepoInput
	Record  aardvark.Record `json:"record"  validate:"required"`
	Message string          `json:"message" validate:"omitempty,max=1024"`
}

// PutRecordOutput reports where the record landed
type PutRecordOutput struct {
	Path string `json:"path"`
}

// CountOutput is the stored record total
type CountOutput struct {
	Count int64 `json:"count"`
}
