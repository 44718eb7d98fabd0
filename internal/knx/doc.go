// Package knx provides the KNX value types the address planner exports:
// three-level group addresses and datapoint type identifiers.
//
// # Group Addresses
//
// The planner uses the 3-level format Main/Middle/Sub (e.g. "1/2/3"):
//
//	ga, err := knx.NewGroupAddress(1, 0, 4)
//	if err != nil {
//	    return err // out of range
//	}
//	fmt.Println(ga) // 1/0/4
//
// # Datapoint Types
//
// Projects store datapoint types as "major.minor" (e.g. "1.001"). ETS import
// files expect the "DPST-major-minor" form without leading zeros:
//
//	knx.DPT("9.001").ToDPST() // "DPST-9-1"
//	knx.ParseDPST("DPST-9-1") // "9.001"
package knx
