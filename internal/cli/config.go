// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration commands for docsight.
package cli

import (
	"fmt"

	"github.com/jeranaias/docsight-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return HandleError(configShow(args), args.JSON)
	case "get":
		return HandleError(configGet(args), args.JSON)
	case "set":
		return HandleError(configSet(args), args.JSON)
	case "path":
		return HandleError(configPath(args), args.JSON)
	case "keys":
		return HandleError(configKeys(args), args.JSON)
	default:
		return HandleError(NewValidationErrorWithExample(
			"subcommand", args.Subcommand, "unknown config subcommand",
			"docsight config [show|get|set|path|keys]"), args.JSON)
	}
}

// configShow prints every setting in dot notation.
func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load configuration")
	}

	if args.JSON {
		values := make(map[string]interface{})
		for _, key := range config.GetAllKeys() {
			if val, err := cfg.Get(key); err == nil {
				values[key] = val
			}
		}
		return NewJSONResponse("config show", values).Print()
	}

	path, _ := config.ConfigPath()

	fmt.Println(TitleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s %v\n", RenderLabel(key, 30), val)
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("File: " + path))
	return nil
}

// configGet prints one setting.
func configGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "docsight config get service.url")
	}

	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load configuration")
	}

	val, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewNotFoundError("config key", args.ConfigKey)
	}

	if args.JSON {
		return NewJSONResponse("config get", map[string]interface{}{args.ConfigKey: val}).Print()
	}
	fmt.Printf("%v\n", val)
	return nil
}

// configSet changes one setting and writes the file back.
func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "docsight config set service.url http://analyzer:8000")
	}

	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "failed to load configuration")
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save configuration")
	}

	if args.JSON {
		return NewJSONResponse("config set", map[string]string{
			"key":   args.ConfigKey,
			"value": args.ConfigVal,
		}).Print()
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[+]"), args.ConfigKey, args.ConfigVal)
	return nil
}

// configPath prints the config file location.
func configPath(args Args) error {
	path, err := config.ConfigPath()
	if err != nil {
		return WrapError(err, "failed to resolve config path")
	}

	if args.JSON {
		return NewJSONResponse("config path", map[string]string{"path": path}).Print()
	}
	fmt.Println(path)
	return nil
}

// configKeys lists the available keys.
func configKeys(args Args) error {
	keys := config.GetAllKeys()

	if args.JSON {
		return NewJSONResponse("config keys", keys).Print()
	}
	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
