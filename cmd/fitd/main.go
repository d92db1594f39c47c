package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zhengye7/fitarena/internal/bootstrap"
	"github.com/zhengye7/fitarena/internal/httpapi"
	"github.com/zhengye7/fitarena/internal/importer"
	"github.com/zhengye7/fitarena/internal/pkg/buildinfo"
	"github.com/zhengye7/fitarena/internal/seed"
)

var (
	cfgFile string
	core    *bootstrap.Core
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fitd",
		Short:   "FitArena - 健身挑战计分服务",
		Long:    `FitArena 跟踪用户在限时健身挑战中的活动记录，并按周期把原始测量值折算为积分。`,
		Version: buildinfo.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			core, err = bootstrap.NewCore(cfgFile)
			if err != nil {
				slog.Error("初始化失败", "error", err)
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if core != nil {
				_ = core.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(recalcCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// serveCmd 启动 HTTP 服务（含导入目录监控）
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if core.DB.SafeMode {
				slog.Warn("数据库处于安全模式，计分写入可能失败", "migration_error", core.DB.MigrationError)
			}

			srv, err := httpapi.Start(ctx, core, httpapi.Options{ListenAddr: core.Cfg.Server.ListenAddr})
			if err != nil {
				slog.Error("启动 HTTP 服务失败", "error", err)
				os.Exit(1)
			}
			fmt.Printf("服务已启动: %s\n", srv.BaseURL())

			if core.Cfg.Import.WatchDir != "" {
				watcher, err := importer.NewWatcher(importer.Config{
					Dir:         core.Cfg.Import.WatchDir,
					DebounceSec: core.Cfg.Import.DebounceSec,
				}, core.Repos.ActivityLog, core.Hub)
				if err != nil {
					slog.Error("启动导入监控失败", "error", err)
					os.Exit(1)
				}
				watcher.Start(ctx)
				defer watcher.Stop()
			}

			<-ctx.Done()
			fmt.Println("正在退出...")
		},
	}
}

// recalcCmd 重算得分
func recalcCmd() *cobra.Command {
	var challengeID int64
	var email string

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "重算挑战得分（指定 --email 只算单个用户）",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if challengeID <= 0 {
				fmt.Println("❌ 需要 --challenge 指定挑战 ID")
				os.Exit(1)
			}

			var err error
			if email != "" {
				err = core.Services.Scoring.RecalculateUserScores(ctx, challengeID, email)
			} else {
				err = core.Services.Scoring.RecalculateChallengeScores(ctx, challengeID)
			}
			if err != nil {
				fmt.Printf("❌ 重算失败: %v\n", err)
				os.Exit(1)
			}

			if email != "" {
				printUserScores(ctx, challengeID, email)
			} else {
				fmt.Println("✅ 挑战得分重算完成")
			}
		},
	}

	cmd.Flags().Int64Var(&challengeID, "challenge", 0, "挑战 ID")
	cmd.Flags().StringVar(&email, "email", "", "用户邮箱（可选）")

	return cmd
}

func printUserScores(ctx context.Context, challengeID int64, email string) {
	scores, err := core.Repos.Score.ListByUser(ctx, challengeID, email)
	if err != nil {
		fmt.Printf("⚠️  查询得分失败: %v\n", err)
		return
	}

	fmt.Printf("📊 %s 的周期得分\n", email)
	fmt.Println("═══════════════════════════════════════")
	total := 0
	for _, s := range scores {
		fmt.Printf("  %s ~ %s  →  %d 分\n", s.PeriodStart, s.PeriodEnd, s.PeriodScore)
		total += s.PeriodScore
	}
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("  合计: %d 分（%d 个周期）\n", total, len(scores))
}

// seedCmd 导入种子挑战
func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "从 YAML 种子文件创建挑战",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			fixture, err := seed.LoadFixture(file)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}

			created, err := fixture.Apply(ctx, core.Repos.Challenge)
			if err != nil {
				fmt.Printf("❌ 种子导入失败（已创建 %d 个）: %v\n", created, err)
				os.Exit(1)
			}
			fmt.Printf("✅ 已创建 %d 个挑战\n", created)
		},
	}

	cmd.Flags().StringVar(&file, "file", "./config/seed.yaml", "种子文件路径")

	return cmd
}

// importCmd 一次性导入活动记录文件
func importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "导入 JSONL 活动记录文件",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if file == "" {
				fmt.Println("❌ 需要 --file 指定导入文件")
				os.Exit(1)
			}

			count, err := importer.ImportFile(ctx, core.Repos.ActivityLog, file)
			if err != nil {
				fmt.Printf("❌ 导入失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ 已导入 %d 条活动记录\n", count)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSONL 文件路径")

	return cmd
}

// statsCmd 数据概览
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "显示数据统计",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			challenges, err := core.Repos.Challenge.Count(ctx)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			logs, err := core.Repos.ActivityLog.Count(ctx)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}
			scores, err := core.Repos.Score.Count(ctx)
			if err != nil {
				fmt.Printf("❌ %v\n", err)
				os.Exit(1)
			}

			fmt.Println("📊 数据统计")
			fmt.Println("═══════════════════════════════════════")
			fmt.Printf("  • 挑战: %d\n", challenges)
			fmt.Printf("  • 活动记录: %d\n", logs)
			fmt.Printf("  • 得分记录: %d\n", scores)
			fmt.Printf("  • schema 版本: %d\n", core.DB.SchemaVersion)
		},
	}
}
