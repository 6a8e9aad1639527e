// Package confgen writes engine object and main configuration files for
// benchmark setups.
package confgen

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"k8s.io/klog/v2"

	"github.com/centreon/engine-rpc/internal/paths"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("confgen").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl"),
)

// DefaultCommand is the check command every generated object uses.
const DefaultCommand = "default_command"

// Options sizes the generated setup.
type Options struct {
	// Hosts is the number of hosts, at least 1.
	Hosts int
	// ServicesPerHost is the number of services attached to each host.
	ServicesPerHost int
	// PassiveHosts and PassiveServices are how many of the hosts and
	// services have active checks disabled. They come first in
	// numbering order.
	PassiveHosts    int
	PassiveServices int
	// Hostgroups spreads hosts round robin over that many groups.
	Hostgroups int
	// RootDir anchors the log, lib and plugin directories referenced by
	// centengine.cfg. Defaults to the parent of the output directory.
	RootDir string
	// Modules are written as broker_module lines.
	Modules []string
}

// Validate reports every invalid option.
func (o Options) Validate() error {
	var errs []error
	if o.Hosts < 1 {
		errs = append(errs, fmt.Errorf("hosts must be >= 1, got %d", o.Hosts))
	}
	if o.ServicesPerHost < 0 {
		errs = append(errs, fmt.Errorf("services per host must be >= 0, got %d", o.ServicesPerHost))
	}
	if o.PassiveHosts < 0 || o.PassiveHosts > o.Hosts {
		errs = append(errs, fmt.Errorf("passive hosts must be between 0 and %d, got %d", max(o.Hosts, 0), o.PassiveHosts))
	}
	if total := o.services(); o.PassiveServices < 0 || o.PassiveServices > total {
		errs = append(errs, fmt.Errorf("passive services must be between 0 and %d, got %d", total, o.PassiveServices))
	}
	if o.Hostgroups < 0 || o.Hostgroups > max(o.Hosts, 0) {
		errs = append(errs, fmt.Errorf("hostgroups must be between 0 and %d, got %d", max(o.Hosts, 0), o.Hostgroups))
	}
	return errors.Join(errs...)
}

func (o Options) services() int {
	return max(o.Hosts, 0) * max(o.ServicesPerHost, 0)
}

// Attr is one "key value" line of an object definition. Slice values are
// written comma separated.
type Attr struct {
	Key   string
	Value any
}

// Object is one "define <kind> { ... }" block.
type Object struct {
	Kind  string
	Attrs []Attr
}

// Object files written by Generate, in cfg_file order.
const (
	HostsFile       = "hosts.cfg"
	ServicesFile    = "services.cfg"
	CommandsFile    = "commands.cfg"
	TimeperiodsFile = "timeperiods.cfg"
	HostgroupsFile  = "hostgroups.cfg"
	ResourceFile    = "resource.cfg"
	MainFile        = "centengine.cfg"
)

type mainData struct {
	Hosts       int
	Services    int
	ConfDir     string
	LogDir      string
	LibDir      string
	PluginDir   string
	ObjectFiles []string
	Modules     []string
}

type outputFile struct {
	name     string
	template string
	data     any
}

// Generate writes the configuration into dir and returns the written
// paths.
func Generate(dir string, opts Options) ([]string, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	confDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	root := opts.RootDir
	if root == "" {
		root = filepath.Dir(confDir)
	}
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", confDir, err)
	}

	objectFiles := []string{HostsFile, ServicesFile, CommandsFile, TimeperiodsFile}
	if opts.Hostgroups > 0 {
		objectFiles = append(objectFiles, HostgroupsFile)
	}
	data := mainData{
		Hosts:     opts.Hosts,
		Services:  opts.services(),
		ConfDir:   confDir,
		LogDir:    filepath.Join(root, "log"),
		LibDir:    filepath.Join(root, "lib"),
		PluginDir: filepath.Join(root, "plugins"),
		Modules:   opts.Modules,
	}
	for _, name := range objectFiles {
		data.ObjectFiles = append(data.ObjectFiles, filepath.Join(confDir, name))
	}

	files := []outputFile{
		{name: HostsFile, template: "objects.tmpl", data: Hosts(opts)},
		{name: ServicesFile, template: "objects.tmpl", data: Services(opts)},
		{name: CommandsFile, template: "objects.tmpl", data: Commands()},
		{name: TimeperiodsFile, template: "timeperiods.tmpl"},
		{name: ResourceFile, template: "resource.tmpl", data: data},
		{name: MainFile, template: "centengine.tmpl", data: data},
	}
	if opts.Hostgroups > 0 {
		files = append(files, outputFile{name: HostgroupsFile, template: "objects.tmpl", data: Hostgroups(opts)})
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(confDir, f.name)
		if err := render(path, f.template, f.data); err != nil {
			return written, err
		}
		klog.V(1).InfoS("wrote engine config", "path", path)
		written = append(written, path)
	}
	return written, nil
}

func render(path, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	return paths.WriteFile(path, buf.Bytes(), 0o644)
}

// HostName returns the name of the i-th host, counting from 1.
func HostName(i int) string { return "host_" + strconv.Itoa(i) }

// ServiceName returns the name of the i-th service, counting from 1.
func ServiceName(i int) string { return "service_" + strconv.Itoa(i) }

// HostgroupName returns the name of the i-th hostgroup, counting from 1.
func HostgroupName(i int) string { return "hostgroup_" + strconv.Itoa(i) }

// Commands returns the command definitions.
func Commands() []Object {
	return []Object{{
		Kind: "command",
		Attrs: []Attr{
			{Key: "command_name", Value: DefaultCommand},
			{Key: "command_line", Value: "/bin/true"},
		},
	}}
}

// Hosts returns the host definitions.
func Hosts(opts Options) []Object {
	hosts := make([]Object, 0, opts.Hosts)
	for i := 1; i <= opts.Hosts; i++ {
		attrs := []Attr{
			{Key: "host_name", Value: HostName(i)},
			{Key: "alias", Value: HostName(i)},
			{Key: "address", Value: "127.0.0.1"},
			{Key: "check_command", Value: DefaultCommand},
			{Key: "check_period", Value: "24x7"},
			{Key: "max_check_attempts", Value: 1},
			{Key: "check_interval", Value: 1},
			{Key: "retry_interval", Value: 1},
			{Key: "active_checks_enabled", Value: activeFlag(i <= opts.PassiveHosts)},
			{Key: "passive_checks_enabled", Value: 1},
		}
		hosts = append(hosts, Object{Kind: "host", Attrs: attrs})
	}
	return hosts
}

// Services returns the service definitions, ServicesPerHost per host.
func Services(opts Options) []Object {
	services := make([]Object, 0, opts.services())
	n := 0
	for h := 1; h <= opts.Hosts; h++ {
		for range opts.ServicesPerHost {
			n++
			attrs := []Attr{
				{Key: "service_description", Value: ServiceName(n)},
				{Key: "host_name", Value: HostName(h)},
				{Key: "check_command", Value: DefaultCommand},
				{Key: "check_period", Value: "24x7"},
				{Key: "max_check_attempts", Value: 1},
				{Key: "check_interval", Value: 1},
				{Key: "retry_interval", Value: 1},
				{Key: "active_checks_enabled", Value: activeFlag(n <= opts.PassiveServices)},
				{Key: "passive_checks_enabled", Value: 1},
			}
			services = append(services, Object{Kind: "service", Attrs: attrs})
		}
	}
	return services
}

// Hostgroups returns the hostgroup definitions. Host i belongs to group
// ((i-1) mod Hostgroups) + 1.
func Hostgroups(opts Options) []Object {
	if opts.Hostgroups < 1 {
		return nil
	}
	members := make([][]string, opts.Hostgroups)
	for i := 1; i <= opts.Hosts; i++ {
		g := (i - 1) % opts.Hostgroups
		members[g] = append(members[g], HostName(i))
	}
	groups := make([]Object, 0, opts.Hostgroups)
	for g := range opts.Hostgroups {
		groups = append(groups, Object{
			Kind: "hostgroup",
			Attrs: []Attr{
				{Key: "hostgroup_name", Value: HostgroupName(g + 1)},
				{Key: "alias", Value: HostgroupName(g + 1)},
				{Key: "members", Value: members[g]},
			},
		})
	}
	return groups
}

func activeFlag(passive bool) int {
	if passive {
		return 0
	}
	return 1
}
