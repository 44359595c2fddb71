package services

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"matchday/config"
)

// StartServer 启动约球服务HTTP服务器，超时参数取自应用配置
func StartServer(r *gin.Engine, port string) *http.Server {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  serverTimeout(config.AppConfig.ServerReadTimeout, 30),
		WriteTimeout: serverTimeout(config.AppConfig.ServerWriteTimeout, 30),
		IdleTimeout:  serverTimeout(config.AppConfig.ServerIdleTimeout, 120),
	}

	// 在后台启动服务器
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("约球服务监听失败: %s\n", err)
		}
	}()

	log.Println("约球服务启动在端口:", port)
	return srv
}

// serverTimeout 配置值单位为秒，未配置时使用默认值
func serverTimeout(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
