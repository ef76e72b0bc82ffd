// Package packer builds fixed-size message frames from physical signal
// values.
//
// A Packer looks each signal up in a registry, converts its physical value
// to a raw integer (raw = round((value-offset)/factor), wrapped to the
// field width in two's complement) and writes it with bits.Set. Messages
// that carry a COUNTER signal get a rolling counter when the caller does
// not supply one, and messages whose CHECKSUM signal has a bound hook get
// the hook's result written last.
//
// Counter state is owned by the Packer. Two packers over the same registry
// count independently. A Packer is not safe for concurrent Pack calls.
//
// Basic usage:
//
//	cat, err := catalog.Load("vehicle.yaml", checksum.Default())
//	reg, err := registry.New(cat)
//	p := packer.New(reg, packer.DefaultConfig())
//	frame, err := p.PackByName("STEERING_CONTROL", []packer.SignalValue{
//	    {Name: "STEER_TORQUE_CMD", Value: 120},
//	})
package packer
