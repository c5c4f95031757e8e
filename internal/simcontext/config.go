package simcontext

import (
	"github.com/BurntSushi/toml"

	"github.com/keurnel/faucon/internal/xstatus"
)

// TargetProfile is the simulator's opaque target model: the scheduling
// classes consumed by decomposition, the resource hierarchy, port names,
// and the few architectural facts the pipeline components need (number of
// architectural registers, decoder/issue widths). It stands in for the
// upstream project's Triple/SubtargetInfo/InstrInfo/SchedModel bundle,
// loaded here from a flat TOML description of a Haswell-like target rather
// than parsed LLVM tablegen data (out of scope per spec.md §1).
type TargetProfile struct {
	Name                 string
	NumArchitecturalRegs int
	NumPhysicalRegs      int
	NumDecoders          int
	UopsPerCycle         int
	MaxBytesPerCycle     int
	Ports                []string
	SchedClasses         map[string]*SchedClass
	Hierarchy            *ResourceHierarchy
}

type tomlProfile struct {
	Name                 string                `toml:"name"`
	NumArchitecturalRegs int                   `toml:"num_architectural_regs"`
	NumPhysicalRegs      int                   `toml:"num_physical_regs"`
	NumDecoders          int                   `toml:"num_decoders"`
	UopsPerCycle         int                   `toml:"uops_per_cycle"`
	MaxBytesPerCycle     int                   `toml:"max_bytes_per_cycle"`
	Ports                []string              `toml:"ports"`
	SchedClass           []tomlSchedClass      `toml:"sched_class"`
	ResourceGroup        []tomlResourceGroup   `toml:"resource_group"`
}

type tomlSchedClass struct {
	Name           string   `toml:"name"`
	ProcResIdx     []int    `toml:"proc_res_idx"`
	Cycles         []uint32 `toml:"cycles"`
	NumMicroOps    int      `toml:"num_micro_ops"`
	WriteLatencies []uint32 `toml:"write_latencies"`
}

type tomlResourceGroup struct {
	GroupIdx int   `toml:"group_idx"`
	Members  []int `toml:"members"`
}

// LoadTargetProfile reads a TOML target profile from path.
func LoadTargetProfile(path string) (*TargetProfile, error) {
	var raw tomlProfile
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, xstatus.InvalidArgumentf("parse target profile %s: %v", path, err)
	}
	return fromTOML(raw), nil
}

func fromTOML(raw tomlProfile) *TargetProfile {
	profile := &TargetProfile{
		Name:                 raw.Name,
		NumArchitecturalRegs: raw.NumArchitecturalRegs,
		NumPhysicalRegs:      raw.NumPhysicalRegs,
		NumDecoders:          raw.NumDecoders,
		UopsPerCycle:         raw.UopsPerCycle,
		MaxBytesPerCycle:     raw.MaxBytesPerCycle,
		Ports:                raw.Ports,
		SchedClasses:         map[string]*SchedClass{},
		Hierarchy: &ResourceHierarchy{
			SubResources:   map[int][]int{},
			SuperResources: map[int][]int{},
		},
	}
	for _, sc := range raw.SchedClass {
		resources := make([]ResourceCycles, 0, len(sc.ProcResIdx))
		for i, idx := range sc.ProcResIdx {
			cycles := uint32(0)
			if i < len(sc.Cycles) {
				cycles = sc.Cycles[i]
			}
			resources = append(resources, ResourceCycles{ProcResIdx: idx, Cycles: cycles})
		}
		profile.SchedClasses[sc.Name] = &SchedClass{
			Name:           sc.Name,
			Resources:      resources,
			NumMicroOps:    sc.NumMicroOps,
			WriteLatencies: sc.WriteLatencies,
		}
	}
	for _, group := range raw.ResourceGroup {
		profile.Hierarchy.SubResources[group.GroupIdx] = group.Members
		for _, member := range group.Members {
			profile.Hierarchy.SuperResources[member] = append(profile.Hierarchy.SuperResources[member], group.GroupIdx)
		}
	}
	return profile
}

// HaswellLikeProfile returns a small, hand-built target profile with the
// same shape as a real Haswell port layout (ports 0-7, with ports 0, 1, 5
// and 6 grouped into resource 100 for ALU sharing), used as a built-in
// default when no TOML profile is supplied. A class that uses one of the
// grouped ports also lists the group's cycles, as Decompose expects.
func HaswellLikeProfile() *TargetProfile {
	return &TargetProfile{
		Name:                 "haswell-like",
		NumArchitecturalRegs: 16,
		NumPhysicalRegs:      168,
		NumDecoders:          4,
		UopsPerCycle:         4,
		MaxBytesPerCycle:     16,
		Ports:                []string{"Port0", "Port1", "Port2", "Port3", "Port4", "Port5", "Port6", "Port7"},
		SchedClasses: map[string]*SchedClass{
			"WriteALU": {
				Name:           "WriteALU",
				Resources:      []ResourceCycles{{ProcResIdx: 100, Cycles: 1}},
				NumMicroOps:    1,
				WriteLatencies: []uint32{1},
			},
			"WriteLoad": {
				Name:           "WriteLoad",
				Resources:      []ResourceCycles{{ProcResIdx: 2, Cycles: 1}},
				NumMicroOps:    1,
				WriteLatencies: []uint32{5},
			},
			"WriteIMul": {
				Name:           "WriteIMul",
				Resources:      []ResourceCycles{{ProcResIdx: 1, Cycles: 1}, {ProcResIdx: 100, Cycles: 1}},
				NumMicroOps:    1,
				WriteLatencies: []uint32{3},
			},
			"WriteFPMul": {
				Name:           "WriteFPMul",
				Resources:      []ResourceCycles{{ProcResIdx: 0, Cycles: 1}, {ProcResIdx: 1, Cycles: 1}, {ProcResIdx: 100, Cycles: 2}},
				NumMicroOps:    2,
				WriteLatencies: []uint32{5},
			},
		},
		Hierarchy: &ResourceHierarchy{
			SubResources:   map[int][]int{100: {0, 1, 5, 6}},
			SuperResources: map[int][]int{0: {100}, 1: {100}, 5: {100}, 6: {100}},
		},
	}
}
