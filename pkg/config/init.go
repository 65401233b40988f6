package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var Config = DefaultConfiguration

var DefaultConfiguration = &Configuration{
	BuildDir: "build",
	SrcDir:   "src",
	Minify:   false,
	ServeConfig: ServeConfiguration{
		Redirect404: "",
		Port:        8100,
	},
	Sass: SassConfiguration{
		OutputStyle: "compressed",
	},
}

type Configuration struct {
	BuildDir      string             `json:"build_directory,omitempty"`
	SrcDir        string             `json:"source_directory,omitempty"`
	Minify        bool               `json:"minify,omitempty"`
	LinksManifest string             `json:"links_manifest,omitempty"`
	ServeConfig   ServeConfiguration `json:"serve_config,omitempty"`
	Sass          SassConfiguration  `json:"sass,omitempty"`
}

type ServeConfiguration struct {
	Redirect404 string `json:"redirect_404"`
	Port        int    `json:"port"`
}

// SassConfiguration holds the options of the scss processor.
// EntryExtnames is the legacy form of EntryFiles and wins when both are set.
type SassConfiguration struct {
	EntryFiles     []string               `json:"entry_files,omitempty"`
	EntryExtnames  ExtnameList            `json:"entry_extnames,omitempty"`
	IncludePaths   []string               `json:"include_paths,omitempty"`
	OutputStyle    string                 `json:"output_style,omitempty"`
	CompileOptions map[string]interface{} `json:"compile_options,omitempty"`
}

func Init(configpath string) error {
	if configpath == "" {
		configpath = "sassbuild.json"
	}

	_, err := os.Stat(configpath)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "could not access configuration file %s", configpath)
		}

		return nil
	}

	f, err := os.Open(configpath)
	if err != nil {
		return err
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(Config)
	if err != nil {
		return errors.Wrapf(err, "could not decode configuration file %s", configpath)
	}

	return nil
}
