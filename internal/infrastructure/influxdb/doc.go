// Package influxdb records planner runs in InfluxDB.
//
// Each generation writes one plan_generation point tagged with site,
// project, view mode and cache outcome, carrying the row counts and the
// run duration. Writes use the non-blocking batched WriteAPI of
// influxdb-client-go v2.
//
//	client, err := influxdb.Connect(cfg.InfluxDB, cfg.Site.ID)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteGeneration(influxdb.Generation{Project: "House", Mode: "building", Stats: stats})
package influxdb
