// Package iojson writes command results as JSON for --json flags.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is written to the error stream when a result cannot be encoded.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// WriteWith writes obj to w as indented JSON. If obj cannot be encoded an
// Error object describing the failure goes to ew instead and the encode
// error is not returned; the command already produced its result.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return writeEncodeError(ew, err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine writes obj as one line of JSON, for listings streamed one
// record per line.
func WriteLine(w io.Writer, obj any) error {
	return json.NewEncoder(w).Encode(obj)
}

func writeEncodeError(ew io.Writer, cause error) error {
	bits, err := json.Marshal(Error{
		Message: "error marshaling in iojson.Write",
		Data:    map[string]any{"json_error": cause.Error()},
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ew, string(bits))
	return err
}
