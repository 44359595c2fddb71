package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"matchday/config"
)

// 约球通知事件类型，供下游通知消费方使用
const (
	NotifyRegistered      = "registered"       // 报名成功，进入正式名单
	NotifyWaitlisted      = "waitlisted"       // 报名成功，进入候补队列
	NotifyPromoted        = "promoted"         // 候补递补为正式名额
	NotifyCancelled       = "cancelled"        // 用户取消报名
	NotifyMeetupCancelled = "meetup_cancelled" // 活动被取消
	NotifyGuestApproved   = "guest_approved"   // 亲友报名审批通过
)

// MeetupEvent 发往Kafka的约球事件
type MeetupEvent struct {
	Type      string    `json:"type"`
	MeetupID  uint      `json:"meetup_id"`
	UserID    uint      `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NotifyService 约球通知服务，通过Kafka向下游分发事件
type NotifyService struct {
	producer sarama.SyncProducer
	topic    string
	metrics  notifyMetrics
}

// notifyMetrics 收集通知相关指标
type notifyMetrics struct {
	sent   int64
	errors int64
	mu     sync.RWMutex
}

// NewNotifyService 创建通知服务
func NewNotifyService() (*NotifyService, error) {
	producerConfig := sarama.NewConfig()
	producerConfig.Producer.RequiredAcks = sarama.WaitForAll
	producerConfig.Producer.Retry.Max = 5
	producerConfig.Producer.Return.Successes = true
	producerConfig.Producer.Compression = sarama.CompressionSnappy
	producerConfig.Version = sarama.V2_5_0_0

	producer, err := sarama.NewSyncProducer(config.AppConfig.KafkaBootstrapServers, producerConfig)
	if err != nil {
		return nil, fmt.Errorf("创建Kafka生产者失败: %v", err)
	}

	return &NotifyService{
		producer: producer,
		topic:    config.AppConfig.KafkaTopicPrefix + "meetup-events",
	}, nil
}

// PublishMeetupEvent 发布约球事件，以活动ID作为分区键保证同一活动事件有序
func (s *NotifyService) PublishMeetupEvent(eventType string, meetupID, userID uint) {
	event := MeetupEvent{
		Type:      eventType,
		MeetupID:  meetupID,
		UserID:    userID,
		Timestamp: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("序列化约球事件失败: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", meetupID)),
		Value: sarama.ByteEncoder(payload),
	}

	if _, _, err := s.producer.SendMessage(msg); err != nil {
		// 通知失败不影响报名本身
		log.Printf("发送约球事件失败: %v", err)
		s.metrics.mu.Lock()
		s.metrics.errors++
		s.metrics.mu.Unlock()
		return
	}

	s.metrics.mu.Lock()
	s.metrics.sent++
	s.metrics.mu.Unlock()
}

// GetMetrics 获取通知指标
func (s *NotifyService) GetMetrics() map[string]int64 {
	s.metrics.mu.RLock()
	defer s.metrics.mu.RUnlock()
	return map[string]int64{
		"events_sent": s.metrics.sent,
		"errors":      s.metrics.errors,
	}
}

// Close 关闭Kafka连接
func (s *NotifyService) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
