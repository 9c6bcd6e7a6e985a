package latency

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
)

// TimingConfig holds latency values for the RV32I instruction classes
// and the core clock.
type TimingConfig struct {
	// ALULatency is the execution latency for register and immediate
	// arithmetic, LUI and AUIPC. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// BranchLatency is the latency for a conditional branch that is not
	// taken. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchTakenPenalty is added when a conditional branch is taken.
	// Default: 2 cycles.
	BranchTakenPenalty uint64 `json:"branch_taken_penalty"`

	// JumpLatency is the latency for JAL and JALR. Default: 2 cycles.
	JumpLatency uint64 `json:"jump_latency"`

	// LoadLatency is the load latency when no data cache is modeled.
	// Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the store latency when no data cache is modeled.
	// Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// ClockFreqMHz is the core clock frequency. Default: 100 MHz.
	ClockFreqMHz float64 `json:"clock_freq_mhz"`
}

// DefaultTimingConfig returns a TimingConfig for a simple single-issue
// RV32I core.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:         1,
		BranchLatency:      1,
		BranchTakenPenalty: 2,
		JumpLatency:        2,
		LoadLatency:        2,
		StoreLatency:       1,
		ClockFreqMHz:       100,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.JumpLatency == 0 {
		return fmt.Errorf("jump_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.ClockFreqMHz <= 0 {
		return fmt.Errorf("clock_freq_mhz must be > 0")
	}
	return nil
}

// Freq returns the core clock as an Akita frequency.
func (c *TimingConfig) Freq() sim.Freq {
	return sim.Freq(c.ClockFreqMHz) * sim.MHz
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
