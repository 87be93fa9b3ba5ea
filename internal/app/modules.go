package app

import (
	"github.com/vk/taskgrid/internal/registry"
	"github.com/vk/taskgrid/modules/count"
	"github.com/vk/taskgrid/modules/echo"
	"github.com/vk/taskgrid/modules/env_vars"
	"github.com/vk/taskgrid/modules/file_ops"
	"github.com/vk/taskgrid/modules/http_request"
	"github.com/vk/taskgrid/modules/print"
	"github.com/vk/taskgrid/modules/result_analyzer"
	"github.com/vk/taskgrid/modules/s3"
	"github.com/vk/taskgrid/modules/sleep"
	"github.com/vk/taskgrid/modules/socketio"
	"github.com/vk/taskgrid/modules/subdomain_scanner"
	"github.com/vk/taskgrid/modules/uppercase"
)

// coreModules is the definitive list of all modules that are compiled into
// the taskgrid binary.
var coreModules = []registry.Module{
	&echo.Module{},
	&print.Module{},
	&env_vars.Module{},
	&file_ops.Module{},
	&count.Module{},
	&uppercase.Module{},
	&http_request.Module{},
	&s3.Module{},
	&sleep.Module{},
	&socketio.Module{},
	&subdomain_scanner.Module{},
	&result_analyzer.Module{},
}
