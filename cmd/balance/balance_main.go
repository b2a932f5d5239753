package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"AncientWarfare/internal/balance"
	"AncientWarfare/internal/shared/appconfig"
	"AncientWarfare/internal/shared/logs"
	"AncientWarfare/modules/kit/logx"
)

func main() {
	cfgName := pflag.StringP("config", "c", "", "配置文件路径，用于读取 combat/balance 段")
	file := pflag.StringP("file", "f", "configs/scenarios.yml", "场景文件")
	iterations := pflag.IntP("iterations", "n", 0, "覆盖每个场景的迭代次数")
	workers := pflag.IntP("workers", "w", 0, "并发数，缺省取配置")
	output := pflag.StringP("output", "o", "table", "输出格式：table|json|yaml")
	pflag.Parse()

	conf, err := appconfig.Load(*cfgName)
	if err != nil {
		// 平衡模拟可以脱离服务配置运行
		conf = appconfig.Current()
	}
	if err := logs.Init("balance", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()

	scenarios, err := balance.LoadScenarios(*file)
	if err != nil {
		logs.Fatal("load scenarios failed", zap.String("file", *file), zap.Error(err))
	}

	w := conf.Balance.Workers
	if *workers > 0 {
		w = *workers
	}
	runner := balance.NewRunner(conf.Combat,
		balance.WithWorkers(w),
		balance.WithIterations(conf.Balance.Iterations),
		balance.WithLogger(logx.NewZapLogger(logs.Logger())),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports := make([]balance.Report, 0, len(scenarios))
	for _, sc := range scenarios {
		if *iterations > 0 {
			sc.Iterations = *iterations
		}
		rep, err := runner.Run(ctx, sc)
		if err != nil {
			logs.Fatal("balance scenario failed", zap.String("scenario", sc.Name), zap.Error(err))
		}
		reports = append(reports, rep)
	}

	if err := render(os.Stdout, *output, reports); err != nil {
		logs.Fatal("render report failed", zap.Error(err))
	}
}

func render(out io.Writer, format string, reports []balance.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case "yaml":
		raw, err := yaml.Marshal(reports)
		if err != nil {
			return err
		}
		_, err = out.Write(raw)
		return err
	case "table":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "场景\t次数\t攻胜\t守胜\t平\t攻方胜率\t平均回合\tP68\tP95\t突破率\t攻损\t守损")
		for _, r := range reports {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.3f\t%.2f\t%d\t%d\t%.3f\t%.3f\t%.3f\n",
				r.Scenario, r.Iterations, r.AttackerWins, r.DefenderWins, r.Draws,
				r.AttackerWinRate, r.MeanTurns, r.P68Turns, r.P95Turns,
				r.BreakthroughRate, r.MeanAttackerLoss, r.MeanDefenderLoss)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
