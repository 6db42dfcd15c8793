package mqtt

import "fmt"

// maxPayloadSize caps outbound messages at 1 MB.
const maxPayloadSize = 1 << 20

// Publish sends payload to topic and waits for the broker to accept it.
//
// QoS 0 is fire-and-forget, 1 is at-least-once, 2 is exactly-once.
// Retained messages are kept by the broker for new subscribers; use them
// for status topics, never for events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// PublishEvent publishes an encoded live-update envelope to its event
// topic at QoS 0, not retained.
func (c *Client) PublishEvent(eventType string, envelope []byte) error {
	return c.Publish(Topics{}.Event(eventType), envelope, 0, false)
}
