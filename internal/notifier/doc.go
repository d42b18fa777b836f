// Package notifier delivers scan reports to people.
//
// Each channel implements Notifier. Slack and Telegram are plain JSON POSTs
// built with sling; Twitter/X goes through go-twitter with OAuth1 user
// credentials; MQTT publishes a retained JSON document for home automation.
// Dispatch fans a message out to every configured channel. Delivery failures
// are logged and returned together but never change the scan's own outcome.
package notifier
