package main

import "errors"

// defaultConfigName is the config file kong fills in when --config is not given.
const defaultConfigName = "leafbuild.yaml"

// Sentinel errors for command operations
var (
	ErrNoCompilerForLanguage = errors.New("no compiler found for project language")
	ErrProjectExists         = errors.New("directory already contains a build file")
)
