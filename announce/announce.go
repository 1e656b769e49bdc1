package announce

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/angas/spotslots-go/convert"
	"github.com/angas/spotslots-go/slots"
	"github.com/angas/spotslots-go/types"
)

const connectTimeout = 10 * time.Second

// Announcer publishes freshly computed cheapest slots as retained JSON so
// home-automation consumers always see the latest ranking per zone.
type Announcer struct {
	mqttClient  mqtt.Client
	logger      *slog.Logger
	topicPrefix string
}

func New(broker string, port int16, username string, password string, topicPrefix string) *Announcer {
	logger := slog.Default().With("module", "announce")

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("spotslots")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", slog.Any("error", err))
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("mqtt connected", slog.String("broker", broker))
	})

	return &Announcer{
		mqttClient:  mqtt.NewClient(opts),
		logger:      logger,
		topicPrefix: topicPrefix,
	}
}

func (a *Announcer) Connect() error {
	token := a.mqttClient.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect failed: %w", err)
	}
	return nil
}

func (a *Announcer) Disconnect() {
	a.mqttClient.Disconnect(250)
}

type slotMessage struct {
	Rank         int       `json:"rank"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	TotalCost    float64   `json:"totalCost"`
	AveragePrice float64   `json:"averagePrice"`
}

type announcement struct {
	Zone        types.Zone    `json:"zone"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Slots       []slotMessage `json:"slots"`
}

// newAnnouncement shapes the ranked slots for publishing. Costs are
// rounded to öre resolution; sub-öre digits are float noise to consumers.
func newAnnouncement(zone types.Zone, found []slots.Slot, at time.Time) announcement {
	msg := announcement{
		Zone:        zone,
		GeneratedAt: at,
		Slots:       make([]slotMessage, 0, len(found)),
	}
	for _, s := range found {
		msg.Slots = append(msg.Slots, slotMessage{
			Rank:         s.Rank,
			Start:        s.Start,
			End:          s.End,
			TotalCost:    convert.TwoDecimals(s.TotalCost),
			AveragePrice: convert.TwoDecimals(s.AveragePrice),
		})
	}
	return msg
}

// PublishSlots sends the ranked slots to {prefix}/{zone}/slots, retained.
func (a *Announcer) PublishSlots(zone types.Zone, found []slots.Slot) error {
	payload, err := json.Marshal(newAnnouncement(zone, found, time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("marshalling slot announcement: %w", err)
	}

	topic := fmt.Sprintf("%s/%s/slots", a.topicPrefix, zone)
	token := a.mqttClient.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s failed: %w", topic, err)
	}

	a.logger.Debug("slots announced",
		slog.String("topic", topic), slog.Int("noOfSlots", len(found)))
	return nil
}
