package app

// homeIntroHTML returns the curated introduction shown above the latest articles.
func homeIntroHTML() string {
	return `
<div class="home-intro">
  <p><strong>تشارتس بوينت</strong> منصة عربية لتعليم التحليل الفني، من قراءة <a href="/basics/patterns/">نماذج الشموع اليابانية</a> إلى بناء <a href="/tactics/">استراتيجيات تداول</a> منضبطة.</p>

  <h2>كيف تبدأ</h2>
  <ul>
    <li>ابدأ بقسم <a href="/basics/">الأساسيات</a> لفهم الرسوم البيانية والاتجاهات.</li>
    <li>انتقل إلى <a href="/indicators/">المؤشرات الفنية</a> لقياس الزخم والتقلب.</li>
    <li>استخدم <a href="/tools/">الأدوات</a> لاختيار المنصة المناسبة.</li>
    <li>لا تتداول قبل قراءة <a href="/tactics/risk/">إدارة المخاطر</a>.</li>
  </ul>
</div>`
}
