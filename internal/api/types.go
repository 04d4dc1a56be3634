package api

// Host is one monitored host as reported by the hosts listing endpoint.
type Host struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	IP     string `json:"ip"`
	OS     string `json:"os"`
	LastTS *int64 `json:"last_ts"`
}

// Sample is a single collected metrics row. All metric fields are optional:
// the collector records whatever it managed to gather, and a partially
// failed poll still produces a row with the timestamp set.
type Sample struct {
	TS        int64    `json:"ts"`
	CPU       *float64 `json:"cpu"`
	MemTotal  *int64   `json:"mem_total"`
	MemAvail  *int64   `json:"mem_avail"`
	Uptime    *int64   `json:"uptime"`
	LatencyMS *float64 `json:"latency_ms"`
	NetRxKbps *float64 `json:"net_rx_kbps"`
	NetTxKbps *float64 `json:"net_tx_kbps"`
}

// Disk is a mounted filesystem snapshot.
type Disk struct {
	Mount       string  `json:"mount"`
	Device      string  `json:"device"`
	SizeBytes   int64   `json:"size_bytes"`
	FreeBytes   int64   `json:"free_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// Inode is a per-mount inode usage record, joined with Disk by mount.
type Inode struct {
	Mount        string  `json:"mount"`
	IUsedPercent float64 `json:"iused_percent"`
}

// CPUDetail is the CPU time breakdown from the latest poll.
type CPUDetail struct {
	UserPct   float64 `json:"user_pct"`
	SysPct    float64 `json:"sys_pct"`
	IdlePct   float64 `json:"idle_pct"`
	IOWaitPct float64 `json:"iowait_pct"`
}

// MemDetail expands the memory numbers beyond total/available.
type MemDetail struct {
	TotalBytes     int64 `json:"total_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
	FreeBytes      int64 `json:"free_bytes"`
	BuffersBytes   int64 `json:"buffers_bytes"`
	CachedBytes    int64 `json:"cached_bytes"`
}

// Swap is swap usage from the latest poll.
type Swap struct {
	TotalBytes int64   `json:"total_bytes"`
	UsedBytes  int64   `json:"used_bytes"`
	UsedPct    float64 `json:"used_pct"`
}

// LoadAvg is the 1/5/15 minute load averages.
type LoadAvg struct {
	L1  float64 `json:"l1"`
	L5  float64 `json:"l5"`
	L15 float64 `json:"l15"`
}

// NetInterface is per-interface throughput in the latest poll window.
type NetInterface struct {
	Iface  string  `json:"iface"`
	RxKbps float64 `json:"rx_kbps"`
	TxKbps float64 `json:"tx_kbps"`
}

// Net aggregates network throughput across interfaces.
type Net struct {
	TotalRxKbps float64        `json:"total_rx_kbps"`
	TotalTxKbps float64        `json:"total_tx_kbps"`
	Interfaces  []NetInterface `json:"interfaces"`
}

// Process is one row of the top-CPU process list.
type Process struct {
	PID int     `json:"pid"`
	Cmd string  `json:"cmd"`
	CPU float64 `json:"cpu"`
	Mem float64 `json:"mem"`
}

// Processes wraps the process count and the top-CPU list.
type Processes struct {
	Total  int       `json:"total"`
	TopCPU []Process `json:"top_cpu"`
}

// System is the host identity block.
type System struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	OSVersion string `json:"os_version"`
	Kernel    string `json:"kernel"`
	Arch      string `json:"arch"`
	Cores     int    `json:"cores"`
}

// Extras holds the loosely-structured supplementary snapshot fields.
// Every section is independently optional; consumers must treat a nil
// section as "no data", never as an error.
type Extras struct {
	CPUDetail *CPUDetail `json:"cpu_detail"`
	MemDetail *MemDetail `json:"mem_detail"`
	Swap      *Swap      `json:"swap"`
	LoadAvg   *LoadAvg   `json:"load_avg"`
	Net       *Net       `json:"net"`
	Inodes    []Inode    `json:"inodes"`
	Processes *Processes `json:"processes"`
	System    *System    `json:"system"`
}

// Series is the response of the per-host series endpoint.
type Series struct {
	Samples []Sample `json:"samples"`
	Disks   []Disk   `json:"disks"`
}

// Latest is the response of the per-host latest-snapshot endpoint.
type Latest struct {
	Last   *Sample `json:"last"`
	Extras Extras  `json:"extras"`
	Disks  []Disk  `json:"disks"`
}
