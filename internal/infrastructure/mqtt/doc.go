// Package mqtt publishes generated address plans to an MQTT broker.
//
// Plans are retained per project so dashboards and commissioning tools
// that subscribe later receive the latest row list:
//
//	{prefix}/{site}/status                  online/offline (LWT)
//	{prefix}/{site}/plans/{project}/rows    JSON array of rows
//	{prefix}/{site}/plans/{project}/summary JSON row counts and mode
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Site.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	pub := mqtt.NewClientPlanPublisher(client)
//	err = pub.PublishPlan(ctx, summary, rows)
//
// The connection uses paho.mqtt.golang with automatic reconnect. Payloads
// are limited to 1MB.
package mqtt
