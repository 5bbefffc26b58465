// Package protocol supplies the initialization data a client needs before
// it can finish loading.
package protocol

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/agbru/bootload/internal/future"
)

// InitData is the opaque initialization record. The core never inspects it.
type InitData map[string]any

// String returns the value at key when it is a string.
func (d InitData) String(key string) (string, bool) {
	v, ok := d[key].(string)
	return v, ok
}

// Section returns the nested record at key, or nil.
func (d InitData) Section(key string) InitData {
	switch v := d[key].(type) {
	case map[string]any:
		return InitData(v)
	case InitData:
		return v
	}
	return nil
}

// Source exposes the initialization data as a single future.
type Source interface {
	InitData() *future.Future[InitData]
}

type staticSource struct {
	f *future.Future[InitData]
}

func (s staticSource) InitData() *future.Future[InitData] { return s.f }

// Static returns a source whose data is already available.
func Static(data InitData) Source {
	if data == nil {
		data = InitData{}
	}
	return staticSource{f: future.Resolved(data)}
}

// Failing returns a source whose data never arrives.
func Failing(err error) Source {
	return staticSource{f: future.Rejected[InitData](err)}
}

// fileSource decodes its document lazily, once.
type fileSource struct {
	f *future.Future[InitData]
}

func (s *fileSource) InitData() *future.Future[InitData] { return s.f }

// FileSource starts decoding the YAML (or JSON) document at path in the
// background and returns a source for the result.
func FileSource(ctx context.Context, path string) Source {
	return &fileSource{f: future.Go(ctx, func(ctx context.Context) (InitData, error) {
		return LoadFile(ctx, path)
	})}
}

// LoadFile reads and decodes the document at path.
func LoadFile(ctx context.Context, path string) (InitData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read init data: %w", err)
	}
	return Decode(raw)
}

// Decode parses a YAML document into an InitData record. An empty document
// yields an empty record.
func Decode(raw []byte) (InitData, error) {
	data := InitData{}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode init data: %w", err)
	}
	return data, nil
}
