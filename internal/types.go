package internal

// 移动提案：扫描得出的一次候选移动
type Proposal struct {
	Source      string
	Destination string
}

// 处理统计
type ProcessStats struct {
	Total     int
	Succeeded int
	Failed    int
	DryRun    bool
}

func (s ProcessStats) AllSucceeded() bool {
	return s.Failed == 0 && s.Succeeded == s.Total
}
