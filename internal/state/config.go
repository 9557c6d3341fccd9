package state

import (
	"path/filepath"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/expinput/helpers"
	"github.com/temoto/expinput/internal/input"
	"github.com/temoto/expinput/internal/recorder"
	"github.com/temoto/expinput/log2"
)

var DefaultForceQuitKeys = []string{"escape"}

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	LogDebug bool `hcl:"log_debug"`

	Input struct {
		ForceQuitKeys []string `hcl:"force_quit_keys"`
		Keyboard      struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
		} `hcl:"keyboard"`
		ResponseBox struct {
			Enable    bool   `hcl:"enable"`
			Chip      string `hcl:"chip"`
			ActiveLow bool   `hcl:"active_low"`
			// only used for Unmarshal, use Buttons()
			XXX_Buttons []ResponseButton `hcl:"button"`
		} `hcl:"response_box"`
		Pointer struct {
			Enable  bool   `hcl:"enable"`
			Device  string `hcl:"device"`
			Visible bool   `hcl:"visible"`
			Width   int    `hcl:"width"`
			Height  int    `hcl:"height"`
		} `hcl:"pointer"`
		DefaultWait struct {
			MaxSec float64 `hcl:"max_sec"`
			MinSec float64 `hcl:"min_sec"`
		} `hcl:"default_wait"`
	} `hcl:"input"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`

	Record recorder.Config `hcl:"record"`
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type ResponseButton struct {
	Name string `hcl:"name,key"`
	Line int    `hcl:"line"`
}

func (c *Config) ForceQuitKeys() []string {
	if len(c.Input.ForceQuitKeys) == 0 {
		return DefaultForceQuitKeys
	}
	return c.Input.ForceQuitKeys
}

// Buttons maps response box symbol to GPIO line offset, later duplicate wins.
func (c *Config) Buttons() map[string]uint32 {
	m := make(map[string]uint32, len(c.Input.ResponseBox.XXX_Buttons))
	for _, b := range c.Input.ResponseBox.XXX_Buttons {
		m[b.Name] = uint32(b.Line)
	}
	return m
}

// DefaultWait max_sec=0 means wait forever.
func (c *Config) DefaultWait() input.Wait {
	dw := &c.Input.DefaultWait
	return input.Wait{
		MaxWait: helpers.FloatSecondDefault(dw.MaxSec, input.Forever),
		MinWait: helpers.FloatSecondDefault(dw.MinSec, 0),
	}
}

func (c *Config) validate() []error {
	errs := make([]error, 0)
	dw := &c.Input.DefaultWait
	if dw.MaxSec < 0 || dw.MinSec < 0 {
		errs = append(errs, errors.NotValidf("config: input.default_wait negative"))
	} else if dw.MaxSec != 0 && dw.MinSec > dw.MaxSec {
		errs = append(errs, errors.NotValidf("config: input.default_wait min_sec=%v > max_sec=%v", dw.MinSec, dw.MaxSec))
	}
	p := &c.Input.Pointer
	if p.Width < 0 || p.Height < 0 {
		errs = append(errs, errors.NotValidf("config: input.pointer width=%d height=%d", p.Width, p.Height))
	}
	if c.Input.Keyboard.Enable && c.Input.Keyboard.Device == "" {
		errs = append(errs, errors.NotValidf("config: input.keyboard.device empty"))
	}
	if p.Enable && p.Device == "" {
		errs = append(errs, errors.NotValidf("config: input.pointer.device empty"))
	}
	rb := &c.Input.ResponseBox
	if rb.Enable {
		if rb.Chip == "" {
			errs = append(errs, errors.NotValidf("config: input.response_box.chip empty"))
		}
		if len(rb.XXX_Buttons) == 0 {
			errs = append(errs, errors.NotValidf("config: input.response_box without buttons"))
		}
		for _, b := range rb.XXX_Buttons {
			if b.Line < 0 {
				errs = append(errs, errors.NotValidf("config: input.response_box.button=%s line=%d", b.Name, b.Line))
			}
		}
	}
	if c.Record.KeepaliveSec < 0 || c.Record.PingTimeoutSec < 0 || c.Record.SendTimeoutSec < 0 {
		errs = append(errs, errors.NotValidf("config: record timeouts negative"))
	}
	return errs
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		if err := osfs.SetBase(dir); err != nil {
			return nil, err
		}
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	if len(errs) == 0 {
		errs = c.validate()
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}

func (c *Config) persistPath(sub string) string {
	root := c.Persist.Root
	if root == "" {
		root = "./tmp-expinput-db"
	}
	return filepath.Join(root, sub)
}
