// Package snapshot encodes a dataset into a compact, URL-safe token and
// decodes it back for the read-only viewer.
//
// Token format: JSON document -> raw DEFLATE -> base64url without padding.
// The alphabet is [A-Za-z0-9_-], so a token can be placed verbatim in a URL
// fragment or inside a double-quoted string literal.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/kittclouds/skillradar/pkg/model"
)

// MaxPayload caps the inflated document size accepted by Decode.
const MaxPayload = 4 << 20

// FragmentPrefix introduces a token in a share link fragment.
const FragmentPrefix = "d="

// ErrInvalid is wrapped by every Decode failure.
var ErrInvalid = errors.New("snapshot: invalid token")

// wireDataset is the decoded document. Pointer slices distinguish a missing
// key from an empty list.
type wireDataset struct {
	Tasks        *[]model.Task       `json:"tasks"`
	Competencies *[]model.Competency `json:"competencies"`
	Scores       model.Scores        `json:"scores"`
	SubjectName  string              `json:"subjectName"`
}

// Encode serializes ds into a token.
func Encode(ds model.Dataset) (string, error) {
	if ds.Tasks == nil {
		ds.Tasks = []model.Task{}
	}
	if ds.Competencies == nil {
		ds.Competencies = []model.Competency{}
	}
	if ds.Scores == nil {
		ds.Scores = model.Scores{}
	}
	doc, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return pack(doc)
}

// pack compresses and base64url-encodes a JSON document.
func pack(doc []byte) (string, error) {
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := zw.Write(doc); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reconstructs the dataset carried by token. It never panics on bad
// input; every failure is returned as an error wrapping ErrInvalid.
// Score entries that do not resolve within the bundle are dropped.
func Decode(token string) (model.Dataset, error) {
	raw, err := unbase(token)
	if err != nil {
		return model.Dataset{}, err
	}

	zr := flate.NewReader(bytes.NewReader(raw))
	defer zr.Close()
	doc, err := io.ReadAll(io.LimitReader(zr, MaxPayload+1))
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if len(doc) > MaxPayload {
		return model.Dataset{}, fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalid, MaxPayload)
	}

	var w wireDataset
	if err := json.Unmarshal(doc, &w); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if w.Tasks == nil && w.Competencies == nil {
		return model.Dataset{}, fmt.Errorf("%w: no tasks or competencies", ErrInvalid)
	}

	ds := model.Dataset{
		Tasks:        []model.Task{},
		Competencies: []model.Competency{},
		Scores:       w.Scores,
		SubjectName:  w.SubjectName,
	}
	if w.Tasks != nil && *w.Tasks != nil {
		ds.Tasks = *w.Tasks
	}
	if w.Competencies != nil && *w.Competencies != nil {
		ds.Competencies = *w.Competencies
	}
	ds.Prune()
	return ds, nil
}

// unbase decodes base64url, tolerating padding and the standard alphabet.
func unbase(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalid)
	}
	token = strings.TrimRight(token, "=")
	token = strings.NewReplacer("+", "-", "/", "_").Replace(token)
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return raw, nil
}

// Fragment returns the "#d=<token>" fragment for ds.
func Fragment(ds model.Dataset) (string, error) {
	token, err := Encode(ds)
	if err != nil {
		return "", err
	}
	return "#" + FragmentPrefix + token, nil
}

// FromFragment extracts a shared dataset from a location hash. A missing
// "d=" prefix or an undecodable token means there is no shared payload.
func FromFragment(fragment string) (model.Dataset, bool) {
	fragment = strings.TrimPrefix(fragment, "#")
	token, ok := strings.CutPrefix(fragment, FragmentPrefix)
	if !ok {
		return model.Dataset{}, false
	}
	ds, err := Decode(token)
	if err != nil {
		return model.Dataset{}, false
	}
	return ds, true
}

// ShareURL appends the snapshot fragment to base, replacing any existing fragment.
func ShareURL(base string, ds model.Dataset) (string, error) {
	frag, err := Fragment(ds)
	if err != nil {
		return "", err
	}
	base, _, _ = strings.Cut(base, "#")
	return base + frag, nil
}
