// Package model contains data structures for the launch configuration, error categories and DTO
package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type AppMode string

const (
	ModeLocal  = AppMode("local")
	ModeMaster = AppMode("master")
	ModeSlave  = AppMode("slave")
)

const (
	DefaultMasterAddress = ":8080"
	DefaultChunkSize     = 1000
	DefaultTimeout       = 1 * time.Minute
	InsensitiveEnv       = "IS_INSENSITIVE"
)

// Категории ошибок: по ним cmd выбирает код выхода
var (
	ErrConfiguration = errors.New("configuration error")
	ErrIO            = errors.New("io error")
)

type AppInit struct {
	Mode        AppMode
	Address     string
	Slaves      NodesList
	Quorum      int
	ChunkSize   int
	Timeout     time.Duration
	SearchParam SearchParam
}

// NodesList - для чтения списка slave-nodes в виде слайса из аргументов
type NodesList []string

func (n *NodesList) String() string {
	return fmt.Sprint(*n)
}

func (n *NodesList) Set(value string) error { // в Set сразу избавляемся от пустых и дублирующихся адресов
	if value == "" {
		return nil
	}
	for _, v := range *n {
		if v == value {
			return nil
		}
	}
	*n = append(*n, value)
	return nil
}

// SearchParam - параметры поиска, неизменяемые после разбора аргументов
type SearchParam struct {
	Query         string `json:"query"`          // подстрока для поиска
	FileName      string `json:"-"`              // файл для чтения документа
	CaseSensitive bool   `json:"case_sensitive"` // false: --insensitive или IS_INSENSITIVE
	InvertMatch   bool   `json:"invert_match"`   // --ignore: выводить строки, НЕ содержащие query
}

type MasterTask struct {
	Task      SlaveTask
	CTX       context.Context
	CancelCTX context.CancelFunc
}

type SlaveTask struct {
	TaskID string      `json:"tid" binding:"required"`
	SP     SearchParam `json:"search_param"`
	Input  []string    `json:"input" binding:"required"`
}

type SlaveResult struct {
	TaskID   string   `json:"tid" binding:"required"`
	HashSumm uint64   `json:"hash"`
	Output   []string `json:"output"`
}
