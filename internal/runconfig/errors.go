package runconfig

import "errors"

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config file")
	errTraceDirEmpty  = errors.New("trace_dir cannot be empty")
	errOutDirEmpty    = errors.New("out_dir cannot be empty")
)
