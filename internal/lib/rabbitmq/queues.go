package rabbitmq

// ExchangeName имя exchange для заданий рассылки.
const ExchangeName = "digests"

const (
	// WeeklyDigestQueue очередь еженедельных дайджестов пользователей.
	WeeklyDigestQueue = "digest.weekly"
	// WeeklyDigestKey routing key очереди еженедельных дайджестов.
	WeeklyDigestKey = "weekly"
)

// QueueConfig пара очередь/ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetDigestQueues возвращает очереди, которые должен объявить канал
// планировщика и воркера рассылки.
func GetDigestQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WeeklyDigestQueue, RoutingKey: WeeklyDigestKey},
	}
}
