package feed

const reportRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>Morning Report</title>
  <link>https://example.org</link>
  <item>
    <title>Morning Report: Council Votes &amp;#8217;Yes&amp;#8217;</title>
    <link>https://example.org/2021/01/01/morning-report</link>
    <pubDate>Fri, 01 Jan 2021 06:30:00 +0000</pubDate>
    <dc:creator>Jane Doe</dc:creator>
    <guid>https://example.org/?p=1</guid>
    <content:encoded><![CDATA[<p><img src="https://example.org/lead.jpg" alt=""/>Good morning.</p><h2>City Hall</h2><ul><li>The council voted.</li></ul><script>track()</script>]]></content:encoded>
  </item>
  <item>
    <title>Older report</title>
    <pubDate>Thu, 31 Dec 2020 06:30:00 +0000</pubDate>
    <content:encoded><![CDATA[<p>Old.</p>]]></content:encoded>
  </item>
</channel>
</rss>`

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Podcast</title>
  <item>
    <title>Episode Three</title>
    <pubDate>Mon, 04 Jan 2021 12:00:00 +0000</pubDate>
    <guid isPermaLink="false">ep-3</guid>
    <enclosure url="http://cdn.example.org/ep3.mp3" length="1" type="audio/mpeg"/>
  </item>
  <item>
    <title>No Audio</title>
    <guid isPermaLink="false">ep-x</guid>
  </item>
  <item>
    <title>Episode Two</title>
    <guid isPermaLink="false">ep-2</guid>
    <enclosure url="https://cdn.example.org/ep2.mp3" length="1" type="audio/mpeg"/>
  </item>
  <item>
    <title>Episode One</title>
    <pubDate>Sat, 02 Jan 2021 12:00:00 +0000</pubDate>
    <guid isPermaLink="false">ep-1</guid>
    <enclosure url="http://cdn.example.org/ep1.mp3" length="1" type="audio/mpeg"/>
  </item>
</channel>
</rss>`
