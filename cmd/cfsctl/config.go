package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/joshuapare/cfskit/cfs"
)

// Config is the optional TOML configuration file.
//
//	[create]
//	version = "1.0"
//	cluster_size = 256
//	cluster_max_expand = 8
//	capacity = 16
//
//	[transaction]
//	dir = "/var/tmp"
//	initial_clusters = 128
//	allocate_growth = 128
//	expand_growth = 16
//
//	[log]
//	level = "debug"
//	dir = "/var/log/cfsctl"
//	json = true
type Config struct {
	Create      CreateSection `toml:"create"`
	Transaction TxSection     `toml:"transaction"`
	Log         LogSection    `toml:"log"`
}

type CreateSection struct {
	Version          string `toml:"version"`
	ClusterSize      int32  `toml:"cluster_size"`
	ClusterMaxExpand int32  `toml:"cluster_max_expand"`
	Capacity         int64  `toml:"capacity"`
}

type TxSection struct {
	Dir             string `toml:"dir"`
	InitialClusters int64  `toml:"initial_clusters"`
	AllocateGrowth  int64  `toml:"allocate_growth"`
	ExpandGrowth    int64  `toml:"expand_growth"`
}

type LogSection struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
	JSON  bool   `toml:"json"`
}

func defaultConfig() Config {
	create := cfs.DefaultCreateConfig("1.0")
	tx := cfs.DefaultTxConfig()
	return Config{
		Create: CreateSection{
			Version:          create.Version,
			ClusterSize:      create.ClusterSize,
			ClusterMaxExpand: create.ClusterMaxExpand,
			Capacity:         create.Capacity,
		},
		Transaction: TxSection{
			Dir:             tx.Dir,
			InitialClusters: tx.InitialClusters,
			AllocateGrowth:  tx.AllocateGrowth,
			ExpandGrowth:    tx.ExpandGrowth,
		},
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (Config, error) {
	c := defaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) createConfig() cfs.CreateConfig {
	return cfs.CreateConfig{
		Version:          c.Create.Version,
		ClusterSize:      c.Create.ClusterSize,
		ClusterMaxExpand: c.Create.ClusterMaxExpand,
		Capacity:         c.Create.Capacity,
	}
}

func (c Config) txConfig() cfs.TxConfig {
	return cfs.TxConfig{
		Dir:             c.Transaction.Dir,
		InitialClusters: c.Transaction.InitialClusters,
		AllocateGrowth:  c.Transaction.AllocateGrowth,
		ExpandGrowth:    c.Transaction.ExpandGrowth,
	}
}
