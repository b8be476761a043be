package plugin

import (
	"context"
	"os"
	"path/filepath"

	"github.com/unclesp1d3r/credscan/lib/result"
)

// FileObject is an object handed to the plugin for analysis.
type FileObject interface {
	ID() string
	RawBytes(ctx context.Context) ([]byte, error)
}

// ResultSink receives the result of every analysed object.
type ResultSink interface {
	StoreResult(ctx context.Context, objectID, pluginName string, r *result.AnalysisResult) error
}

type fileObject struct {
	path string
}

// FileFromPath returns a FileObject reading the file at path. Its ID is the absolute path.
func FileFromPath(path string) FileObject {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	return fileObject{path: path}
}

func (f fileObject) ID() string {
	return f.path
}

func (f fileObject) RawBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(f.path)
}

type bytesObject struct {
	id   string
	data []byte
}

// BytesObject returns a FileObject over data already in memory.
func BytesObject(id string, data []byte) FileObject {
	return bytesObject{id: id, data: data}
}

func (b bytesObject) ID() string {
	return b.id
}

func (b bytesObject) RawBytes(context.Context) ([]byte, error) {
	return b.data, nil
}
