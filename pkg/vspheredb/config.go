package vspheredb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigSettingsSection is the ini section holding the database settings.
const ConfigSettingsSection = "/settings/vspheredb"

// Config contains the sections of a config file.
type Config map[string]*ConfigSection

// ConfigSection contains a single config section.
type ConfigSection struct {
	name string
	data ConfigData
}

// ConfigData contains data for a section.
type ConfigData map[string]string

func NewConfig() Config {
	conf := make(Config, 0)

	return conf
}

// ReadSettingsFile opens the config file and reads all key value pairs, separated through = and commented out with ";" or "#".
func (config Config) ReadSettingsFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %s", path, err.Error())
	}
	defer file.Close()

	return config.parseINI(file, path)
}

func (config Config) parseINI(file io.Reader, path string) error {
	currentSection := ""
	lineNr := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNr++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}

		if line[0] == '[' {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			config.Section(currentSection)

			continue
		}

		if currentSection == "" {
			return fmt.Errorf("config error in %s:%d: found key=value outside of section", path, lineNr)
		}

		val := strings.SplitN(line, "=", 2)
		if len(val) != 2 {
			return fmt.Errorf("config error in %s:%d: expected key = value", path, lineNr)
		}
		key := strings.TrimSpace(val[0])
		value, err := unquote(strings.TrimSpace(val[1]))
		if err != nil {
			return fmt.Errorf("config error in %s:%d: %s", path, lineNr, err.Error())
		}

		config.Section(currentSection).data[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %s", path, err.Error())
	}

	return nil
}

func unquote(value string) (string, error) {
	for _, quote := range []string{`"`, `'`} {
		if !strings.HasPrefix(value, quote) {
			continue
		}
		if len(value) < 2 || !strings.HasSuffix(value, quote) {
			return "", fmt.Errorf("unclosed quotes")
		}

		return value[1 : len(value)-1], nil
	}

	return value, nil
}

// Section returns section by name, it will be created if it does not exist.
func (config Config) Section(name string) *ConfigSection {
	if section, ok := config[name]; ok {
		return section
	}

	section := &ConfigSection{name: name, data: make(ConfigData)}
	config[name] = section

	return section
}

// GetString returns the string value, ok is false if the key does not exist.
func (cs *ConfigSection) GetString(key string) (val string, ok bool) {
	val, ok = cs.data[key]

	return val, ok
}

// GetInt parses int from config section, it returns the value if found and sets ok to true.
// If value is found but cannot be parsed, error is set.
func (cs *ConfigSection) GetInt(key string) (num int, ok bool, err error) {
	val, ok := cs.GetString(key)
	if !ok {
		return 0, false, nil
	}
	num, err = strconv.Atoi(val)
	if err != nil {
		return 0, true, fmt.Errorf("%s: ParseInt: %s", key, err.Error())
	}

	return num, true, nil
}

// GetDuration parses duration value like 10s from config section.
// If value is found but cannot be parsed, error is set.
func (cs *ConfigSection) GetDuration(key string) (val time.Duration, ok bool, err error) {
	raw, ok := cs.GetString(key)
	if !ok {
		return 0, false, nil
	}
	val, err = time.ParseDuration(raw)
	if err != nil {
		return 0, true, fmt.Errorf("%s: GetDuration: %s", key, err.Error())
	}

	return val, true, nil
}
