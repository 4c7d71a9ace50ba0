// serialism inspects, exports and frames serialized object graphs.
//
// Blobs that carry host objects name their classes. Pass those names with
// --class (or list them in a --config file) so the blob decodes; the
// classes are registered as empty descriptors.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/voodooattack/serialism"
	"github.com/voodooattack/serialism/export"
	"github.com/voodooattack/serialism/frame"
	"github.com/voodooattack/serialism/value"
)

const usage = `Usage: serialism <command> [flags] <args>

Commands:
  inspect <file>          print the decoded value as a tree
  browse <file>           interactive tree viewer
  export <file>           convert to json, yaml or cbor
  frame <in> <out>        wrap a blob in a compressed, checksummed frame
  unframe <in> <out>      verify a frame and extract the blob

Use - as <file> or <in> to read standard input.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// env carries the streams and shared settings of one invocation.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *zap.Logger
	cfg    Config
	flags  *pflag.FlagSet
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	commands := map[string]func(*env, []string) error{
		"inspect": cmdInspect,
		"browse":  cmdBrowse,
		"export":  cmdExport,
		"frame":   cmdFrame,
		"unframe": cmdUnframe,
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage)
		return 2
	}

	var (
		configPath string
		classes    []string
		verbose    bool
		format     string
		compress   string
		output     string
	)
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringSliceVarP(&classes, "class", "c", nil, "class name to register (repeatable)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	switch name {
	case "export":
		flags.StringVarP(&format, "format", "f", "", "output format: json, yaml or cbor")
		flags.StringVarP(&output, "output", "o", "-", "output file")
	case "frame":
		flags.StringVar(&compress, "compress", "", "compression: none, lz4 or zstd")
	}

	if err := flags.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	cfg.Classes = cfg.classNames(classes)
	if format != "" {
		f, err := export.ParseFormat(format)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		cfg.Format = f
	}
	if compress != "" {
		c, err := frame.ParseCompression(compress)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		cfg.Compression = c
	}

	e := &env{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		log:    newLogger(stderr, verbose),
		cfg:    cfg,
		flags:  flags,
	}
	defer e.log.Sync()

	if err := cmd(e, flags.Args()); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// serializer builds a Serialism with the configured classes registered.
func (e *env) serializer() (*serialism.Serialism, error) {
	s := serialism.New(
		serialism.WithLogger(e.log),
		serialism.WithMaxDepth(e.cfg.MaxDepth),
		serialism.WithCompression(e.cfg.Compression),
		serialism.WithSymbolTable(value.NewSymbolTable()),
	)
	classes := make([]*value.Class, 0, len(e.cfg.Classes))
	for _, name := range e.cfg.Classes {
		classes = append(classes, value.NewClass(name))
	}
	if _, err := s.Register(classes...); err != nil {
		return nil, err
	}
	return s, nil
}

func (e *env) readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func (e *env) writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := e.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// decode reads path and decodes it, unwrapping a frame when present.
func (e *env) decode(path string) (any, error) {
	data, err := e.readInput(path)
	if err != nil {
		return nil, err
	}
	return e.decodeBytes(data)
}

func (e *env) decodeBytes(data []byte) (any, error) {
	s, err := e.serializer()
	if err != nil {
		return nil, err
	}
	if frame.IsFrame(data) {
		e.log.Debug("input is framed", zap.Int("size", len(data)))
		return s.DeserializeFramed(data)
	}
	return s.Deserialize(data)
}

func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected exactly one %s, got %d arguments", what, len(args))
	}
	return args[0], nil
}

func twoArgs(args []string) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected <in> <out>, got %d arguments", len(args))
	}
	return args[0], args[1], nil
}

func cmdInspect(e *env, args []string) error {
	path, err := oneArg(args, "input file")
	if err != nil {
		return err
	}
	v, err := e.decode(path)
	if err != nil {
		return err
	}
	return renderTree(e.stdout, buildTree(v))
}

func cmdBrowse(e *env, args []string) error {
	path, err := oneArg(args, "input file")
	if err != nil {
		return err
	}
	v, err := e.decode(path)
	if err != nil {
		return err
	}
	root := buildTree(v)

	if f, ok := e.stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		e.log.Debug("stdout is not a terminal, printing tree")
		return renderTree(e.stdout, root)
	}
	return runBrowse(path, root)
}

func cmdExport(e *env, args []string) error {
	path, err := oneArg(args, "input file")
	if err != nil {
		return err
	}
	v, err := e.decode(path)
	if err != nil {
		return err
	}
	output, _ := e.flags.GetString("output")
	if output == "-" {
		return export.Write(e.stdout, e.cfg.Format, v)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(f, e.cfg.Format, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdFrame(e *env, args []string) error {
	in, out, err := twoArgs(args)
	if err != nil {
		return err
	}
	data, err := e.readInput(in)
	if err != nil {
		return err
	}
	if frame.IsFrame(data) {
		return fmt.Errorf("%s is already framed", in)
	}

	// Refuse blobs that would not decode later.
	if _, err := e.decodeBytes(data); err != nil {
		return fmt.Errorf("validate payload: %w", err)
	}

	framed, err := frame.Encode(data, e.cfg.Compression)
	if err != nil {
		return err
	}
	hdr, err := frame.ReadHeader(framed)
	if err == nil {
		e.log.Debug("framed payload",
			zap.Stringer("compression", hdr.Compression),
			zap.Uint32("size", hdr.Size),
			zap.Int("framed", len(framed)))
	}
	return e.writeOutput(out, framed)
}

func cmdUnframe(e *env, args []string) error {
	in, out, err := twoArgs(args)
	if err != nil {
		return err
	}
	data, err := e.readInput(in)
	if err != nil {
		return err
	}
	payload, err := frame.Decode(data)
	if err != nil {
		return err
	}
	return e.writeOutput(out, payload)
}
