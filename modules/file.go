package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quetzal-lang/quetzal/core"
)

// _file resolves relative paths against root.
type _file struct {
	root string
}

func loadFile(reg *core.Registry, root string) {
	c := &_file{root: root}

	reg.LoadFunc("read_file", 1, c.readFile)
	reg.LoadFunc("write_file", 2, c.writeFile)
}

func (c *_file) resolve(fnName string, arg core.Value) (string, *core.RuntimeError) {
	path, ok := arg.(core.StringValue)
	if !ok {
		return "", unsupported(fnName, arg)
	}
	if filepath.IsAbs(string(path)) || c.root == "" {
		return string(path), nil
	}
	return filepath.Join(c.root, string(path)), nil
}

func (c *_file) readFile(args []core.Value) (core.Value, *core.RuntimeError) {
	path, err := c.resolve("read_file", args[0])
	if err != nil {
		return nil, err
	}

	content, ioErr := os.ReadFile(path)
	if ioErr != nil {
		return nil, &core.RuntimeError{
			Kind:   core.IOError,
			Reason: fmt.Sprintf("read_file: %s", ioErr),
		}
	}
	return core.StringValue(content), nil
}

// writeFile replaces the file's contents and returns the number of bytes
// written.
func (c *_file) writeFile(args []core.Value) (core.Value, *core.RuntimeError) {
	path, err := c.resolve("write_file", args[0])
	if err != nil {
		return nil, err
	}

	content := args[1].String()
	if ioErr := os.WriteFile(path, []byte(content), 0o644); ioErr != nil {
		return nil, &core.RuntimeError{
			Kind:   core.IOError,
			Reason: fmt.Sprintf("write_file: %s", ioErr),
		}
	}
	return core.IntValue(len(content)), nil
}
