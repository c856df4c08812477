package service

import (
	"charity-donation-backend/config"
	"charity-donation-backend/internal/util"
	"crypto/tls"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 负责活动生命周期相关的邮件通知
type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
	enabled  bool
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
		enabled:  config.AppConfig.SMTPUsername != "" && config.AppConfig.SMTPPassword != "",
	}
}

// SendCampaignCompletedEmail 通知发起人活动已达标
func (s *EmailService) SendCampaignCompletedEmail(to, title string, raised int64) {
	subject := fmt.Sprintf("您的募捐活动「%s」已达成目标", title)
	body := fmt.Sprintf("您好，\n\n您发起的募捐活动「%s」已筹满目标金额，当前共筹集 %d 个单位。\n现在可以提取活动资金了。", title, raised)
	s.sendEmailAsync(to, subject, body)
}

// SendCampaignExpiredEmail 通知发起人活动已过截止时间且未达标
func (s *EmailService) SendCampaignExpiredEmail(to, title string, deadline time.Time) {
	subject := fmt.Sprintf("您的募捐活动「%s」已截止", title)
	body := fmt.Sprintf("您好，\n\n您发起的募捐活动「%s」已于 %s 截止，目标金额未达成。\n您可以选择为捐赠人办理退款。", title, deadline.Format("2006-01-02 15:04:05"))
	s.sendEmailAsync(to, subject, body)
}

// SendRefundEmail 通知捐赠人退款已完成
func (s *EmailService) SendRefundEmail(to, title string, amount int64) {
	subject := fmt.Sprintf("募捐活动「%s」退款通知", title)
	body := fmt.Sprintf("您好，\n\n您在募捐活动「%s」中捐赠的 %d 个单位已原路退回您的账户。", title, amount)
	s.sendEmailAsync(to, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	if !s.enabled || to == "" {
		return
	}
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = true
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
