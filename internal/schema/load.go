package schema

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/reflect/protoreflect"
	"k8s.io/klog/v2"
)

const (
	engineProtoName = "engine.proto"

	// EngineService is the service exposed by the monitoring engine.
	EngineService protoreflect.FullName = "com.centreon.engine.Engine"
)

//go:embed engine.proto
var engineProto string

// LoadEngine builds the registry from the engine schema compiled into the
// binary.
func LoadEngine() (*Registry, error) {
	p := protoparse.Parser{
		Accessor:              protoparse.FileContentsFromMap(map[string]string{engineProtoName: engineProto}),
		IncludeSourceCodeInfo: true,
	}
	fds, err := p.ParseFiles(engineProtoName)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded %s: %w", engineProtoName, err)
	}
	return fromFile(fds[0].UnwrapFile(), EngineService)
}

// LoadFile builds the registry from a .proto file on disk. When service is
// empty the first service declared in the file is used. Imports are
// resolved from the directory of path, then from importPaths.
func LoadFile(path string, importPaths []string, service string) (*Registry, error) {
	dirs := append([]string{filepath.Dir(path)}, importPaths...)

	p := protoparse.Parser{
		ImportPaths:           dirs,
		IncludeSourceCodeInfo: true,
	}
	fds, err := p.ParseFiles(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	klog.V(2).InfoS("loaded schema", "path", path, "package", fds[0].GetPackage())
	return fromFile(fds[0].UnwrapFile(), protoreflect.FullName(service))
}

// Load picks the embedded engine schema when path is empty.
func Load(path string, importPaths []string, service string) (*Registry, error) {
	if path == "" {
		return LoadEngine()
	}
	return LoadFile(path, importPaths, service)
}

func fromFile(fd protoreflect.FileDescriptor, service protoreflect.FullName) (*Registry, error) {
	services := fd.Services()
	if services.Len() == 0 {
		return nil, fmt.Errorf("%s declares no service", fd.Path())
	}
	if service == "" {
		return New(services.Get(0))
	}
	for i := 0; i < services.Len(); i++ {
		sd := services.Get(i)
		if sd.FullName() == service || string(sd.Name()) == string(service) {
			return New(sd)
		}
	}
	return nil, fmt.Errorf("service %q not found in %s", service, fd.Path())
}
