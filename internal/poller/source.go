package poller

import (
	"net/url"
	"os"
	"strings"
)

// IDSource reports the identifier of the record being edited, if it has one.
type IDSource interface {
	RecordID() (string, bool)
}

// IDSourceFunc adapts a function to IDSource.
type IDSourceFunc func() (string, bool)

func (f IDSourceFunc) RecordID() (string, bool) {
	return f()
}

const (
	uploadsSegment = "uploads"
	unsavedID      = "new"
)

// ParseDepositID extracts the record identifier from a deposit location such
// as "/uploads/abc12" or "https://host/uploads/abc12?tab=files". The "new"
// placeholder means the deposit has not been saved yet.
func ParseDepositID(location string) (string, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", false
	}
	path := location
	if parsed, err := url.Parse(location); err == nil {
		path = parsed.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 2; i >= 0; i-- {
		if segments[i] != uploadsSegment {
			continue
		}
		id := strings.TrimSpace(segments[i+1])
		if id == "" || id == unsavedID {
			return "", false
		}
		return id, true
	}
	return "", false
}

// LocationSource reads the current deposit location on every call.
func LocationSource(location func() string) IDSource {
	return IDSourceFunc(func() (string, bool) {
		if location == nil {
			return "", false
		}
		return ParseDepositID(location())
	})
}

// FileSource reads the deposit location from a file, so another process can
// publish the location once the draft is saved. Missing files mean no ID yet.
func FileSource(path string) IDSource {
	return LocationSource(func() string {
		raw, err := os.ReadFile(path)
		if err != nil {
			return ""
		}
		return string(raw)
	})
}

// StaticSource always reports the supplied location.
func StaticSource(location string) IDSource {
	return LocationSource(func() string { return location })
}
