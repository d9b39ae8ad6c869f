package api

import (
	"net/http"
	"strconv"
	"time"

	"cam-screen/internal/surface"
	"cam-screen/models"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
)

// handleStatus 界面状态 + 最近内存采样 + 主机信息
func (s *Server) handleStatus(c *gin.Context) {
	st := s.ui.Status()

	uptimeSec := uint64(0)
	if up, err := host.Uptime(); err == nil {
		uptimeSec = up
	}
	cpuUsage := 0.0
	if v, err := cpu.Percent(0, false); err == nil && len(v) > 0 {
		cpuUsage = v[0]
	}
	diskUsage := 0.0
	if du, err := disk.Usage("/"); err == nil && du != nil {
		diskUsage = du.UsedPercent
	}

	info := gin.H{
		"device_id":  s.device.ID,
		"name":       s.device.Name,
		"grid":       st,
		"grid_total": surface.Size,
		"uptime":     uptimeSec,
		"cpu_usage":  cpuUsage,
		"disk_usage": diskUsage,
	}
	if s.mem != nil {
		if sample, ok := s.mem.Last(); ok {
			info["memory"] = sample
		}
	}
	c.JSON(http.StatusOK, models.SuccessResponse(info))
}

// handleCapture 导出当前位图；?format=pgm 返回 P5 图像
func (s *Server) handleCapture(c *gin.Context) {
	buf := s.ui.Snapshot()
	switch c.DefaultQuery("format", "json") {
	case "pgm":
		c.Header("Content-Disposition", `inline; filename="capture-`+time.Now().Format("20060102-150405")+`.pgm"`)
		c.Data(http.StatusOK, "image/x-portable-graymap", buf.PGM())
	case "json":
		pixels := make([]int, len(buf))
		for i, v := range buf {
			pixels[i] = int(v)
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"rows":   surface.Rows,
			"cols":   surface.Cols,
			"pixels": pixels,
			"filled": buf.Filled(),
		}))
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse(400, "format 仅支持 json/pgm"))
	}
}

// handleClear 清空网格
func (s *Server) handleClear(c *gin.Context) {
	s.ui.Clear()
	c.JSON(http.StatusOK, models.SuccessResponse(nil))
}

// handleInfer 推理并返回结果文本
func (s *Server) handleInfer(c *gin.Context) {
	label := s.ui.Infer()
	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"label": label}))
}

// handleTap 点击第 index 个单元格（行优先）
func (s *Server) handleTap(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(400, "参数错误: "+err.Error()))
		return
	}
	if err := s.ui.Tap(index); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorFrom(400, err))
		return
	}
	st := s.ui.Status()
	c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"index": index, "filled": st.Filled}))
}
