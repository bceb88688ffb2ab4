// Package parser puts process arguments and environment into AppInit structure and validates it for any issues
package parser

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/UnendingLoop/MiniGrep/internal/model"
)

const usage = "Usage: minigrep [--insensitive] [--ignore] <query> <filename>"

// LookupEnv has the signature of os.LookupEnv. Environment is consulted only while parsing.
type LookupEnv func(key string) (string, bool)

// флаги, которые ожидают значение следующим аргументом
var valueFlags = map[string]struct{}{
	"mode":    {},
	"node":    {},
	"quorum":  {},
	"chunk":   {},
	"cluster": {},
	"address": {},
}

func InitAppMode(args []string, lookupEnv LookupEnv) (*model.AppInit, error) {
	appInit := model.AppInit{
		ChunkSize: model.DefaultChunkSize,
		Timeout:   model.DefaultTimeout,
	}

	flagParser := flag.NewFlagSet("minigrep", flag.ContinueOnError)
	flagParser.SetOutput(io.Discard)

	mode := flagParser.String("mode", string(model.ModeLocal), "specify mode of the app: 'local', 'master' or 'slave'")
	insensitive := flagParser.Bool("insensitive", false, "case-insensitive search, overrides "+model.InsensitiveEnv)
	ignore := flagParser.Bool("ignore", false, "print only lines that DON'T contain the query")
	addr := flagParser.String("address", "", fmt.Sprintf("specify slave-node address (NB: %q is already used by master-node)", model.DefaultMasterAddress))
	q := flagParser.Int("quorum", 0, "set slave-nodes N for quorum")
	chunk := flagParser.Int("chunk", 0, "set N lines per task sent to slave-nodes")
	cluster := flagParser.String("cluster", "", "YAML file with slave-nodes, quorum, chunk_lines and timeout")
	flagParser.Var(&appInit.Slaves, "node", "set slave-node address")

	// флаги могут идти и после позиционных аргументов
	flags, positional := reorderArgs(args)
	if err := flagParser.Parse(flags); err != nil {
		return nil, fmt.Errorf("%w: %v\n%s", model.ErrConfiguration, err, usage)
	}
	positional = append(flagParser.Args(), positional...)

	appInit.Mode = model.AppMode(*mode)

	// проверяем режим
	switch appInit.Mode {
	case model.ModeLocal:
		if err := initSearchParam(&appInit, positional, *insensitive, *ignore, lookupEnv); err != nil {
			return nil, err
		}
	case model.ModeMaster:
		if err := initSearchParam(&appInit, positional, *insensitive, *ignore, lookupEnv); err != nil {
			return nil, err
		}
		if err := initMasterParam(&appInit, *cluster, *q, *chunk); err != nil {
			return nil, err
		}
	case model.ModeSlave:
		if err := initSlaveParam(&appInit, *addr); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown mode %q specified", model.ErrConfiguration, appInit.Mode)
	}

	return &appInit, nil
}

func initSearchParam(ai *model.AppInit, positional []string, insensitive, ignore bool, lookupEnv LookupEnv) error {
	// Разбираемся с query и именем файла
	switch {
	case len(positional) < 2:
		return fmt.Errorf("%w: not enough arguments\n%s", model.ErrConfiguration, usage)
	case len(positional) > 2:
		return fmt.Errorf("%w: unexpected argument %q\n%s", model.ErrConfiguration, positional[2], usage)
	case positional[0] == "":
		return fmt.Errorf("%w: empty query", model.ErrConfiguration)
	case positional[1] == "":
		return fmt.Errorf("%w: empty filename", model.ErrConfiguration)
	}

	ai.SearchParam = model.SearchParam{
		Query:         positional[0],
		FileName:      positional[1],
		CaseSensitive: caseSensitive(insensitive, lookupEnv),
		InvertMatch:   ignore,
	}
	return nil
}

// флаг важнее переменной окружения; у переменной важен только факт наличия
func caseSensitive(insensitiveFlag bool, lookupEnv LookupEnv) bool {
	if insensitiveFlag {
		return false
	}
	if lookupEnv != nil {
		if _, ok := lookupEnv(model.InsensitiveEnv); ok {
			return false
		}
	}
	return true
}

func initSlaveParam(ai *model.AppInit, addr string) error {
	switch addr {
	case "":
		return fmt.Errorf("%w: empty slave-node address", model.ErrConfiguration)
	case model.DefaultMasterAddress:
		return fmt.Errorf("%w: specified slave-node address not available", model.ErrConfiguration)
	default:
		ai.Address = addr
		return nil
	}
}

func initMasterParam(ai *model.AppInit, clusterFile string, quorum, chunk int) error {
	ai.Address = model.DefaultMasterAddress

	// сначала файл кластера, явные флаги его перекрывают
	if clusterFile != "" {
		if err := applyClusterFile(ai, clusterFile); err != nil {
			return err
		}
	}
	if quorum != 0 {
		ai.Quorum = quorum
	}
	if chunk != 0 {
		ai.ChunkSize = chunk
	}

	switch {
	case len(ai.Slaves) == 0:
		return fmt.Errorf("%w: at least one --node must be provided running in 'slave'-mode", model.ErrConfiguration)
	case ai.Quorum <= 0 || ai.Quorum > len(ai.Slaves):
		return fmt.Errorf("%w: incorrect quorum %d provided for %d slave-nodes", model.ErrConfiguration, ai.Quorum, len(ai.Slaves))
	case ai.ChunkSize <= 0:
		return fmt.Errorf("%w: incorrect chunk size %d provided", model.ErrConfiguration, ai.ChunkSize)
	case ai.Timeout <= 0:
		return fmt.Errorf("%w: incorrect timeout %v provided", model.ErrConfiguration, ai.Timeout)
	}
	return nil
}

// reorderArgs отделяет флаги от позиционных аргументов, чтобы flag.FlagSet увидел все флаги.
// Все после "--" считается позиционным.
func reorderArgs(args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			positional = append(positional, args[i+1:]...)
			return flags, positional
		case len(arg) > 1 && strings.HasPrefix(arg, "-"):
			flags = append(flags, arg)
			name := strings.TrimLeft(arg, "-")
			if _, ok := valueFlags[name]; ok && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}
	return flags, positional
}
