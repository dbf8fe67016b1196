package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"arb-router-sol/internal/config"
	"arb-router-sol/internal/pkg/logger"
	"arb-router-sol/internal/service"
	"arb-router-sol/internal/svc"

	"github.com/goccy/go-json"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	zerosvc "github.com/zeromicro/go-zero/core/service"
	_ "go.uber.org/automaxprocs"
)

var (
	configFile    = flag.String("f", "etc/arbsim.yaml", "the config file")
	scenarioFiles = flag.String("s", "", "comma separated scenario files, overrides config scenarios")
	serve         = flag.Bool("serve", false, "keep running, repeat scenarios every interval_sec")
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			code = 2
		}
	}()

	flag.Parse()

	var c config.SimConfig
	conf.MustLoad(*configFile, &c)

	logger.InitLogger(c.LogConf.ToLogOption())
	defer logger.Sync()

	paths := c.Scenarios
	if *scenarioFiles != "" {
		paths = strings.Split(*scenarioFiles, ",")
	}
	if len(paths) == 0 {
		logx.Error("no scenario files")
		return 1
	}

	serviceContext, err := svc.NewServiceContext(c)
	if err != nil {
		logx.Errorf("init service context: %v", err)
		return 1
	}
	defer serviceContext.Close()

	simService := service.NewSimService(serviceContext, paths, time.Duration(c.IntervalSec)*time.Second)

	if *serve {
		sg := zerosvc.NewServiceGroup()
		defer sg.Stop()
		sg.Add(simService)

		logx.Infof("Starting arb simulation service, scenarios=%d interval=%ds", len(paths), c.IntervalSec)
		// 阻塞直到收到退出信号
		sg.Start()
		return 0
	}

	reports, err := simService.RunOnce(context.Background())
	for _, r := range reports {
		out, mErr := json.MarshalIndent(r, "", "  ")
		if mErr != nil {
			logx.Errorf("marshal report %s: %v", r.ID, mErr)
			continue
		}
		fmt.Println(string(out))
	}
	if err != nil {
		logx.Errorf("simulation failed: %v", err)
		return 1
	}
	return 0
}
