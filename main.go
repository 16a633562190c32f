package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interview-agent-go/internal/agent"
	"interview-agent-go/internal/api/router"
	"interview-agent-go/internal/config"
	"interview-agent-go/internal/handler"
	"interview-agent-go/internal/interview"
	applogger "interview-agent-go/internal/logger"
	"interview-agent-go/internal/parser"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

func main() {
	ctx := context.Background()

	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径")
	pflag.Parse()

	// 加载.env文件（如果存在），API密钥等敏感配置可以放在这里
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		applogger.Fatal().Err(err).Msg("加载配置失败")
	}

	// 2. 初始化日志系统，并把Hertz的内部日志接到同一个zerolog实例上
	applogger.Init(applogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(applogger.Logger))
	applogger.Info().Msg("配置加载成功")

	// 3. 初始化模型客户端
	// 3.1 档案提取模型
	extractionLLM, err := agent.NewAliyunQwenChatModel(
		cfg.Aliyun.APIKey,
		cfg.GetModelForTask("profile_extraction"),
		cfg.Aliyun.APIURL,
	)
	if err != nil {
		applogger.Fatal().Err(err).Msg("初始化档案提取LLM客户端失败")
	}

	// 3.2 面试对话模型
	dialogueLLM, err := agent.NewAliyunQwenChatModel(
		cfg.Aliyun.APIKey,
		cfg.GetModelForTask("interview_dialogue"),
		cfg.Aliyun.APIURL,
	)
	if err != nil {
		applogger.Fatal().Err(err).Msg("初始化面试对话LLM客户端失败")
	}
	applogger.Info().Msg("LLM客户端初始化成功")

	// 4. 初始化PDF解析器
	pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx)
	if err != nil {
		applogger.Fatal().Err(err).Msg("初始化PDF解析器失败")
	}
	applogger.Info().Msg("PDF解析器初始化成功")

	// 5. 初始化档案归一化器和面试组件
	normalizer := parser.NewLLMProfileNormalizer(extractionLLM, nil)
	interviewer := interview.NewInterviewer(dialogueLLM)
	session := interview.NewInterviewSession(interviewer,
		interview.WithMaxQuestions(cfg.Interview.MaxQuestions))

	// 6. 初始化业务处理器
	interviewHandler := handler.NewInterviewHandler(cfg, pdfExtractor, normalizer, session)
	applogger.Info().Msg("面试处理器初始化成功")

	// 7. 启动Hertz HTTP服务器
	h := server.Default(server.WithHostPorts(cfg.Server.Address))
	router.RegisterRoutes(h, interviewHandler)

	applogger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器正在启动")
	go func() {
		h.Spin()
	}()

	// 8. 等待信号退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	applogger.Info().Msg("收到退出信号，正在关闭资源...")

	// 9. 优雅关闭Hertz服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		applogger.Error().Err(err).Msg("Hertz服务器关闭失败")
	}

	applogger.Info().Msg("优雅退出完成")
}
