package internal

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/tuannm99/novatuple/internal/record"
	"github.com/tuannm99/novatuple/internal/types"
)

const DefaultStringLen = 128

type NovaTupleConfig struct {
	AppName string `mapstructure:"app_name"`

	Types struct {
		StringLen int `mapstructure:"string_len"`
	} `mapstructure:"types"`

	Relations []RelationConfig `mapstructure:"relations"`
	Joins     []JoinConfig     `mapstructure:"joins"`
}

type RelationConfig struct {
	Name   string        `mapstructure:"name"`
	Fields []FieldConfig `mapstructure:"fields"`
}

// FieldConfig is one column. A missing name means the field is unnamed.
type FieldConfig struct {
	Name *string `mapstructure:"name"`
	Type string  `mapstructure:"type"`
}

type JoinConfig struct {
	Left  string `mapstructure:"left"`
	Right string `mapstructure:"right"`
}

func LoadConfig(path string) (*NovaTupleConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app_name", "novatuple")
	v.SetDefault("types.string_len", DefaultStringLen)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg NovaTupleConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// TupleDesc builds the relation's schema. Bare "string" columns get
// defaultStringLen bytes.
func (rc RelationConfig) TupleDesc(defaultStringLen int) (*record.TupleDesc, error) {
	ts := make([]types.Type, len(rc.Fields))
	names := make([]record.Name, len(rc.Fields))
	for i, f := range rc.Fields {
		t, err := types.ParseType(f.Type, defaultStringLen)
		if err != nil {
			return nil, fmt.Errorf("relation %s field %d: %w", rc.Name, i, err)
		}
		ts[i] = t
		if f.Name != nil {
			names[i] = record.Named(*f.Name)
		}
	}

	td, err := record.NewTupleDesc(ts, names)
	if err != nil {
		return nil, fmt.Errorf("relation %s: %w", rc.Name, err)
	}
	return td, nil
}
