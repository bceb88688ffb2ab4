package parser

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/UnendingLoop/MiniGrep/internal/model"
	"gopkg.in/yaml.v3"
)

// clusterFile - описание кластера slave-nodes для режима master
//
//	nodes:
//	  - http://127.0.0.1:8081
//	  - http://127.0.0.1:8082
//	quorum: 2
//	chunk_lines: 500
//	timeout: 30s
type clusterFile struct {
	Nodes      []string      `yaml:"nodes"`
	Quorum     int           `yaml:"quorum"`
	ChunkLines int           `yaml:"chunk_lines"`
	Timeout    time.Duration `yaml:"timeout"`
}

func applyClusterFile(ai *model.AppInit, fileName string) error {
	raw, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("%w: couldn't read cluster file %q: %w", model.ErrConfiguration, fileName, err)
	}

	var cf clusterFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cf); err != nil {
		return fmt.Errorf("%w: couldn't parse cluster file %q: %w", model.ErrConfiguration, fileName, err)
	}

	for _, node := range cf.Nodes {
		_ = ai.Slaves.Set(node)
	}
	if cf.Quorum != 0 {
		ai.Quorum = cf.Quorum
	}
	if cf.ChunkLines != 0 {
		ai.ChunkSize = cf.ChunkLines
	}
	if cf.Timeout != 0 {
		ai.Timeout = cf.Timeout
	}
	return nil
}
